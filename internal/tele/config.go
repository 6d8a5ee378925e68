package tele

type Config struct { //nolint:maligned
	Enable            bool   `hcl:"enable"`
	Broker            string `hcl:"broker"`
	Password          string `hcl:"password"`
	ClientPrefix      string `hcl:"client_prefix"`
	KeepaliveSec      int    `hcl:"keepalive_sec"`
	NetworkTimeoutSec int    `hcl:"network_timeout_sec"`
	StateIntervalSec  int    `hcl:"state_interval_sec"`
	LogDebug          bool   `hcl:"log_debug"`
}
