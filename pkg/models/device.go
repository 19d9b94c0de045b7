package models

// EsnDetailsResponse represents the outer wrapper of GET /api/v2/EsnDetails/{esn}
type EsnDetailsResponse struct {
	Data []EsnDetails `json:"data"`
}

// EsnDetails is the raw device record inside the "data" array.
type EsnDetails struct {
	ESN      string                   `json:"esn"`
	Type     string                   `json:"type"`
	Name     string                   `json:"name"`
	Cluster  string                   `json:"cluster"`
	DisksIPs map[string]string        `json:"disks_ips"` // JSON key is "disks_ips", not "disk_ips"
	States   map[string]ArchiverState `json:"states"`
}

// ArchiverState nests the state string under each archiver key.
type ArchiverState struct {
	State string `json:"state"`
}

// DeviceInfo is the flattened device record used by the rest of the tool.
// Archivers and ArchiverStates always cover exactly the same key set.
type DeviceInfo struct {
	ESN            string            `json:"esn"`
	Type           string            `json:"type"`
	Name           string            `json:"name"`
	Cluster        string            `json:"cluster"`
	DiskIPs        map[string]string `json:"diskIps"`
	Archivers      []string          `json:"archivers"`
	ArchiverStates map[string]string `json:"archiverStates"`
}
