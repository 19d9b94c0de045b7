package client

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"bridgelog-cli/pkg/models"
)

// GetDeviceInfo fetches the EsnDetails record for a device and flattens it
// into a DeviceInfo. The archiver list and the archiver-state map are built
// from the same disks_ips keys, so their key sets always match.
func (c *EENClient) GetDeviceInfo(ctx context.Context, sess models.Session, esn string) (models.DeviceInfo, error) {
	reqCtx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	var respData models.EsnDetailsResponse

	resp, err := c.HTTP.R().
		SetContext(reqCtx).
		SetCookies(sessionCookies(sess)).
		SetResult(&respData).
		Get(c.Config.ResolverBaseURL + "/api/v2/EsnDetails/" + esn)

	if err != nil {
		return models.DeviceInfo{}, &TransportError{Msg: "device info request failed", Err: err}
	}

	if resp.StatusCode() == http.StatusForbidden {
		return models.DeviceInfo{}, &AuthError{Msg: "unauthorized (403): ensure you are connected to the EagleEye VPN"}
	}

	if resp.IsError() {
		return models.DeviceInfo{}, &TransportError{
			Msg:        fmt.Sprintf("device info failed with status %d: %s", resp.StatusCode(), snippet(resp.String())),
			StatusCode: resp.StatusCode(),
		}
	}

	if len(respData.Data) == 0 {
		return models.DeviceInfo{}, &NotFoundError{Msg: fmt.Sprintf("no device found for ESN %q, check the ESN", esn)}
	}

	return flattenDeviceInfo(respData.Data[0])
}

// flattenDeviceInfo turns the nested EsnDetails shape into the flat record.
// Archiver order is the sorted disks_ips key set; JSON object order is not
// observable here and archiver ids sort naturally (a1471, a1472, ...).
func flattenDeviceInfo(raw models.EsnDetails) (models.DeviceInfo, error) {
	archivers := make([]string, 0, len(raw.DisksIPs))
	for a := range raw.DisksIPs {
		archivers = append(archivers, a)
	}
	sort.Strings(archivers)

	states := make(map[string]string, len(archivers))
	for _, a := range archivers {
		st, ok := raw.States[a]
		if !ok {
			return models.DeviceInfo{}, &TransportError{Msg: fmt.Sprintf("malformed device info: no state for archiver %q", a)}
		}
		states[a] = st.State
	}

	diskIPs := make(map[string]string, len(raw.DisksIPs))
	for a, ip := range raw.DisksIPs {
		diskIPs[a] = ip
	}

	return models.DeviceInfo{
		ESN:            raw.ESN,
		Type:           raw.Type,
		Name:           raw.Name,
		Cluster:        raw.Cluster,
		DiskIPs:        diskIPs,
		Archivers:      archivers,
		ArchiverStates: states,
	}, nil
}
