package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/kardianos/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"bridgelog-cli/internal/client"
	"bridgelog-cli/pkg/models"
)

// Variables to hold flag values
var (
	expUser       string
	expPass       string
	expESNs       string
	expPort       string
	serviceAction string // "install", "uninstall", "start", "stop"
)

// --- SERVICE WRAPPER ---

// program implements the kardianos/service interface
type program struct {
	exit   chan struct{}
	server *http.Server
	api    *client.EENClient
	esns   []string
}

func (p *program) Start(s service.Service) error {
	// Start should not block. Do the actual work async.
	p.exit = make(chan struct{})
	go p.run()
	return nil
}

func (p *program) run() {
	// 1. Initial Login
	log.Println("Attempting initial login...")
	sess, err := p.api.Authenticate(context.Background(), expUser, expPass)
	if err != nil {
		log.Printf("Fatal: Initial login failed: %v", err)
		// Exit so the service manager attempts a restart.
		os.Exit(1)
	}
	log.Println("Initial login successful.")

	// 2. Setup Prometheus
	registry := prometheus.NewRegistry()
	collector := &BridgeCollector{Client: p.api, Session: sess, ESNs: p.esns}
	registry.MustRegister(collector)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	addr := fmt.Sprintf(":%s", expPort)
	p.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	log.Printf("EEN Bridge Exporter listening on %s", addr)

	// Blocking call to listen
	if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("HTTP Server error: %v", err)
	}
}

func (p *program) Stop(s service.Service) error {
	// Stop should not block. Signal the app to stop.
	log.Println("Stopping service...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if p.server != nil {
		if err := p.server.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}
	}
	close(p.exit)
	return nil
}

// --- COLLECTOR LOGIC ---

// BridgeCollector scrapes EsnDetails for each configured bridge on every
// Prometheus collection.
type BridgeCollector struct {
	Client  *client.EENClient
	Session models.Session
	ESNs    []string
	Mutex   sync.Mutex
}

var (
	upDesc = prometheus.NewDesc(
		"een_up", "Was the last scrape successful.", nil, nil,
	)
	scrapeDurationDesc = prometheus.NewDesc(
		"een_scrape_duration_seconds", "Time taken to scrape the EEN API.", nil, nil,
	)
	archiverStateDesc = prometheus.NewDesc(
		"een_archiver_state", "Archiver presence by state (always 1; state is a label).", []string{"esn", "archiver", "ip", "state"}, nil,
	)
	archiverCountDesc = prometheus.NewDesc(
		"een_archivers_total", "Number of archivers attached to the bridge.", []string{"esn"}, nil,
	)
)

func (c *BridgeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upDesc
	ch <- scrapeDurationDesc
	ch <- archiverStateDesc
	ch <- archiverCountDesc
}

func (c *BridgeCollector) Collect(ch chan<- prometheus.Metric) {
	c.Mutex.Lock()
	defer c.Mutex.Unlock()
	start := time.Now()
	success := 1.0

	for _, esn := range c.ESNs {
		device, err := c.fetchDeviceWithRetry(esn)
		if err != nil {
			success = 0.0
			log.Printf("Error scraping device %s: %v", esn, err)
			continue
		}

		ch <- prometheus.MustNewConstMetric(archiverCountDesc, prometheus.GaugeValue, float64(len(device.Archivers)), device.ESN)

		for _, a := range device.Archivers {
			ip := device.DiskIPs[a]
			if ip == "" {
				ip = "unknown"
			}
			st := device.ArchiverStates[a]
			if st == "" {
				st = "unknown"
			}
			ch <- prometheus.MustNewConstMetric(archiverStateDesc, prometheus.GaugeValue, 1.0, device.ESN, a, ip, st)
		}
	}

	ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, success)
	ch <- prometheus.MustNewConstMetric(scrapeDurationDesc, prometheus.GaugeValue, time.Since(start).Seconds())
}

// fetchDeviceWithRetry re-logs-in once when the session has expired.
func (c *BridgeCollector) fetchDeviceWithRetry(esn string) (models.DeviceInfo, error) {
	res, err := c.Client.GetDeviceInfo(context.Background(), c.Session, esn)
	if err == nil {
		return res, nil
	}
	var authErr *client.AuthError
	if errors.As(err, &authErr) {
		if sess, e := c.Client.Authenticate(context.Background(), expUser, expPass); e == nil {
			c.Session = sess
			return c.Client.GetDeviceInfo(context.Background(), c.Session, esn)
		}
	}
	return models.DeviceInfo{}, err
}

// --- COMMAND ---

var exporterCmd = &cobra.Command{
	Use:   "exporter",
	Short: "Start Prometheus Exporter service",
	Long: `Starts a long-running HTTP server that exposes archiver state metrics
for a set of bridges. Can be installed as a system service.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Parse the ESN list
		var esns []string
		for _, e := range strings.Split(expESNs, ",") {
			if trimmed := strings.TrimSpace(e); trimmed != "" {
				esns = append(esns, trimmed)
			}
		}
		if len(esns) == 0 {
			log.Fatal("Error: --esns must list at least one bridge ESN.")
		}

		// 2. Define Service Configuration
		svcConfig := &service.Config{
			Name:        "bridgelog-exporter",
			DisplayName: "EEN Bridge Prometheus Exporter",
			Description: "Exposes Eagle Eye Networks archiver metrics to Prometheus",
			// Arguments passed to the binary when run as a service
			Arguments: []string{
				"exporter",
				"--username", expUser,
				"--password", expPass,
				"--esns", expESNs,
				"--port", expPort,
			},
		}

		prg := &program{
			api:  client.New(client.ClientConfig{}),
			esns: esns,
		}

		s, err := service.New(prg, svcConfig)
		if err != nil {
			log.Fatal(err)
		}

		// 3. Handle Service Control Actions (Install, Start, Stop, Uninstall)
		if serviceAction != "" {
			if serviceAction == "install" {
				// Validate required flags before installing
				if expUser == "" || expPass == "" {
					log.Fatal("Error: You must provide --username and --password to install the service.")
				}
			}

			err = service.Control(s, serviceAction)
			if err != nil {
				log.Fatalf("Failed to %s service: %v", serviceAction, err)
			}
			fmt.Printf("Service action '%s' completed successfully.\n", serviceAction)
			return
		}

		// 4. Run the Service (Blocking)
		// This happens when the Service Manager starts the binary, OR when run interactively
		logger, err := s.Logger(nil)
		if err != nil {
			log.Fatal(err)
		}
		if err = s.Run(); err != nil {
			logger.Error(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(exporterCmd)
	exporterCmd.Flags().StringVar(&expUser, "username", "", "VMS account email")
	exporterCmd.Flags().StringVar(&expPass, "password", "", "VMS account password")
	exporterCmd.Flags().StringVar(&expESNs, "esns", "", "Comma separated list of bridge ESNs to scrape")
	exporterCmd.Flags().StringVar(&expPort, "port", "9101", "Port to listen on")

	// Flag for Service Control
	exporterCmd.Flags().StringVar(&serviceAction, "service", "", "Service action: install, uninstall, start, stop")
}
