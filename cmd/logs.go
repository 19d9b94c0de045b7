package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bridgelog-cli/internal/client"
	"bridgelog-cli/pkg/models"
)

// Variables to hold flag values
var (
	logsESN      string
	logsArchiver int
	logsStart    string
	logsEnd      string
	logsOutDir   string
)

// timestampLayout matches the interactive date+time entry (YYYYMMDD + HHMM).
const timestampLayout = "200601021504"

// Parent Command
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Pull archiver logs",
	Long:  `Download bridge, stream, analog, and preview log streams for one archiver.`,
}

// Pull Command
var logsPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download log streams for an archiver over a time window",
	Long: `Resolves the device, selects one of its archivers, and downloads each
log category to a per-device directory. Missing selections are prompted
interactively. The end time accepts "now" (or "c") for the current time.`,
	Example: `  bridgelog-cli logs pull --esn 100bbc9c --archiver 1 --start 202403051430 --end now
  bridgelog-cli logs pull --esn 100bbc9c`,
	Run: func(cmd *cobra.Command, args []string) {
		api, sess := setupClient()

		device, err := api.GetDeviceInfo(context.Background(), sess, logsESN)
		if err != nil {
			exitWithError(err)
		}

		stdin := bufio.NewReader(os.Stdin)

		// Archiver selection: 1-based flag matching the interactive menu,
		// where 0 exits.
		var idx int
		if cmd.Flags().Changed("archiver") {
			idx, err = selectArchiver(logsArchiver, len(device.Archivers))
			if err != nil {
				exitWithError(err)
			}
		} else {
			idx = promptArchiver(stdin, device)
		}

		start, end, err := resolveWindow(stdin, cmd.Flags().Changed("start"), cmd.Flags().Changed("end"))
		if err != nil {
			exitWithError(err)
		}

		fmt.Printf("Pulling logs for %s via archiver %s (%s to %s UTC)\n",
			device.ESN, device.Archivers[idx],
			start.Format("2006-01-02 15:04"), end.Format("2006-01-02 15:04"))

		results, err := api.PullLogs(context.Background(), sess, device, idx, start, end, logsOutDir)
		if err != nil {
			exitWithError(err)
		}

		printSummary(results)
	},
}

// selectArchiver converts the 1-based --archiver flag value to a 0-based
// index, rejecting anything outside the device's archiver list before it
// can reach a slice index or a network call.
func selectArchiver(selection, total int) (int, error) {
	if selection < 1 || selection > total {
		return 0, &client.ValidationError{Msg: fmt.Sprintf("archiver selection %d out of range [1,%d]", selection, total)}
	}
	return selection - 1, nil
}

// promptArchiver loops until the user picks a valid 1-based archiver, with
// 0 exiting the program.
func promptArchiver(stdin *bufio.Reader, device models.DeviceInfo) int {
	fmt.Println("Please select archiver (or '0' to exit):")
	for i, a := range device.Archivers {
		fmt.Printf("    %d : %s (%s)\n", i+1, a, device.ArchiverStates[a])
	}

	for {
		fmt.Print("    Archiver selection: ")
		line, err := stdin.ReadString('\n')
		if err != nil {
			fmt.Println("Error reading selection.")
			os.Exit(1)
		}

		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || n < 0 || n > len(device.Archivers) {
			fmt.Println("Please make a valid selection.")
			continue
		}
		if n == 0 {
			fmt.Println("Exiting...")
			os.Exit(0)
		}
		return n - 1
	}
}

// resolveWindow produces the start/end times from flags or prompts.
func resolveWindow(stdin *bufio.Reader, haveStart, haveEnd bool) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if haveStart {
		start, err = time.ParseInLocation(timestampLayout, logsStart, time.UTC)
		if err != nil {
			return start, end, fmt.Errorf("invalid --start %q, expected YYYYMMDDHHMM", logsStart)
		}
	} else {
		start = promptTime(stdin, "start", false)
	}

	if haveEnd {
		end, err = parseEnd(logsEnd)
		if err != nil {
			return start, end, err
		}
	} else {
		end = promptTime(stdin, "end", true)
	}

	return start, end, nil
}

// parseEnd handles the "current time" sentinel on top of the fixed layout.
func parseEnd(raw string) (time.Time, error) {
	switch strings.ToLower(raw) {
	case "c", "now":
		return time.Now().UTC(), nil
	}
	end, err := time.ParseInLocation(timestampLayout, raw, time.UTC)
	if err != nil {
		return end, fmt.Errorf("invalid --end %q, expected YYYYMMDDHHMM or 'now'", raw)
	}
	return end, nil
}

// promptTime loops until a valid date and time are entered. For the end
// time, 'c' short-circuits to the current UTC time.
func promptTime(stdin *bufio.Reader, label string, allowCurrent bool) time.Time {
	fmt.Printf("\n%s Date & Time Selection\n", titled(label))
	for {
		datePrompt := fmt.Sprintf("    Please enter %s date in YYYYMMDD format: ", label)
		if allowCurrent {
			datePrompt = fmt.Sprintf("    Please enter %s date in YYYYMMDD format (or 'c' for current date & time): ", label)
		}
		fmt.Print(datePrompt)
		dateStr, err := stdin.ReadString('\n')
		if err != nil {
			fmt.Println("Error reading input.")
			os.Exit(1)
		}
		dateStr = strings.TrimSpace(dateStr)

		if allowCurrent && strings.EqualFold(dateStr, "c") {
			now := time.Now().UTC()
			fmt.Printf("    %s time: %s\n", titled(label), now.Format("2006-01-02 15:04"))
			return now
		}

		fmt.Printf("    Please enter the %s time in HHMM format (24-hour clock): ", label)
		timeStr, err := stdin.ReadString('\n')
		if err != nil {
			fmt.Println("Error reading input.")
			os.Exit(1)
		}
		timeStr = strings.TrimSpace(timeStr)

		t, err := time.ParseInLocation(timestampLayout, dateStr+timeStr, time.UTC)
		if err != nil {
			fmt.Printf("Error converting %s time. Please check inputs.\n", label)
			continue
		}
		fmt.Printf("    %s time: %s\n", titled(label), t.Format("2006-01-02 15:04"))
		return t
	}
}

// titled uppercases the first letter for prompt headers.
func titled(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// printSummary reports each category's outcome; partial success is normal.
func printSummary(results []models.CategoryResult) {
	if jsonOutput {
		type line struct {
			Category models.LogCategory `json:"category"`
			Path     string             `json:"path,omitempty"`
			Lines    int                `json:"lines,omitempty"`
			Seconds  float64            `json:"seconds"`
			Error    string             `json:"error,omitempty"`
		}
		out := make([]line, 0, len(results))
		for _, r := range results {
			l := line{Category: r.Category, Path: r.Path, Lines: r.Lines, Seconds: r.Elapsed.Seconds()}
			if r.Failed() {
				l.Error = r.Err.Error()
			}
			out = append(out, l)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Printf("Error encoding JSON: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println()
	for _, r := range results {
		if r.Failed() {
			color.Red("  %-8s FAILED  %v", r.Category, r.Err)
			continue
		}
		color.Green("  %-8s %s  %d lines  %.2f secs", r.Category, r.Path, r.Lines, r.Elapsed.Seconds())
	}
}

func init() {
	// Register Parent
	rootCmd.AddCommand(logsCmd)

	// Register Subcommands
	logsCmd.AddCommand(logsPullCmd)

	logsPullCmd.Flags().StringVar(&logsESN, "esn", "", "Bridge ESN")
	logsPullCmd.Flags().IntVar(&logsArchiver, "archiver", 0, "Archiver selection (1-based, as shown by 'device info'); prompted when omitted")
	logsPullCmd.Flags().StringVar(&logsStart, "start", "", "Window start, YYYYMMDDHHMM (UTC)")
	logsPullCmd.Flags().StringVar(&logsEnd, "end", "", "Window end, YYYYMMDDHHMM (UTC) or 'now'")
	logsPullCmd.Flags().StringVar(&logsOutDir, "out", "bridge_logs", "Root output directory")
	_ = logsPullCmd.MarkFlagRequired("esn")
}
