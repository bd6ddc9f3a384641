package platform

import (
	"os"
	"strings"
)

// Properties is a read-only view of platform properties, e.g. the hardware
// revision string. Values are looked up fresh on every call.
type Properties interface {
	Get(key, def string) string
}

type envProperties struct {
	prefix string
}

// NewEnvProperties returns a Properties store backed by environment
// variables. A property key like "ro.boot.revision" is looked up as
// "<PREFIX>_RO_BOOT_REVISION".
func NewEnvProperties(prefix string) Properties {
	return envProperties{prefix: prefix}
}

func (p envProperties) Get(key, def string) string {
	name := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
	if p.prefix != "" {
		name = p.prefix + "_" + name
	}
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return def
}
