package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Fyers Trader Configuration

[api]
# Account and order endpoints
base_url = "https://api-t1.fyers.in/api/v3"
# Market data endpoints (history)
data_base_url = "https://api-t1.fyers.in/data"
# Login and token endpoints
auth_base_url = "https://api-t1.fyers.in/api/v3"
# Timeout for a whole request
timeout = "30s"

[log]
# debug, info, warn, error
level = "info"
# Also write a rotated log file
file = false

[store]
# SQLite candle cache used by 'fyers history --save'
# path = "~/.config/fyers-trader/candles.db"
`

const credentialsTemplate = `# Fyers Trader Credentials
# WARNING: Keep this file secure! Do not commit to version control.

[fyers]
client_id = ""
secret_key = ""
redirect_uri = ""
# Filled in by 'fyers auth exchange' and 'fyers auth refresh'
access_token = ""
refresh_token = ""
pin = ""
`

func createTemplate(configDir, name, content string, perm os.FileMode) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name)
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return fmt.Errorf("writing %s template: %w", name, err)
	}
	return nil
}
