package configuration

type Configuration struct {
	HttpAddr          string `usage:"HTTP address"`
	DatabaseName      string `usage:"name of the in-memory database"`
	SeedDemo          bool   `usage:"load the demo learning content on startup"`
	SnapshotFile      string `usage:"snapshot imported on startup (ignored when missing) and written by POST /v1/snapshot:saveSnapshot"`
	SnapshotCompress  bool   `usage:"lz4 compress exported snapshots"`
	LogLevel          string `usage:"log level: debug | info | warn | error"`
	EnableCompression bool   `usage:"gzip responses for clients that accept it"`
	Version           bool   `usage:"show version and exit"`
	ShowBanner        bool   `usage:"show big banner"`
	ShowConfig        bool   `usage:"print config"`
}

func Default() Configuration {
	return Configuration{
		HttpAddr:          "127.0.0.1:8080",
		DatabaseName:      "edututor",
		SeedDemo:          true,
		SnapshotFile:      "",
		SnapshotCompress:  true,
		LogLevel:          "info",
		EnableCompression: true,
		Version:           false,
		ShowBanner:        true,
		ShowConfig:        false,
	}
}
