package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "toml", "":
		return tomlTemplate, nil
	case "yaml", "yml":
		return yamlTemplate, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func WriteTemplate(path, format string, overwrite bool) error {
	template, err := Template(format)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("routing table already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o644)
}

const tomlTemplate = `package = "main"
router = "AppRouter"
imports = []

# Compact rules: "Source, Message[, Response]: [receiver, ...]"
rules = []

[[handlers]]
name = "my_source"
type = "MySource"

[[handlers]]
name = "sink"
type = "Sink"

[[routes]]
source = "MySource"
message = "MyMessage"
response = "string"
receivers = ["sink"]
`

const yamlTemplate = `package: main
router: AppRouter
imports: []

handlers:
  - name: my_source
    type: MySource
  - name: sink
    type: Sink

routes:
  - source: MySource
    message: MyMessage
    response: string
    receivers: [sink]

# Compact rules: "Source, Message[, Response]: [receiver, ...]"
rules: []
`
