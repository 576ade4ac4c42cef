// Package dumpmeta persists the identity-query fields a decode pass needs
// (log format, record count, mode) alongside a raw flash dump, so `mtklog
// decode` can resume work on a file written by a separate `mtklog dump`
// invocation without re-probing the device.
package dumpmeta

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Meta is the sidecar content: the subset of protocol.DeviceInfo that
// SectorScanner needs to bound and interpret a scan.
type Meta struct {
	LogFormat     uint32 `yaml:"log_format"`
	Mode          int    `yaml:"mode"`
	NextWriteAddr uint32 `yaml:"next_write_addr"`
	RecordCount   uint32 `yaml:"record_count"`
	ModelID       string `yaml:"model_id"`
}

// SidecarPath returns the metadata file path for a given dump file path.
func SidecarPath(dumpPath string) string {
	return dumpPath + ".meta.yaml"
}

// Write marshals meta as YAML to the sidecar path for dumpPath.
func Write(dumpPath string, meta Meta) error {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(SidecarPath(dumpPath), data, 0o644)
}

// Read loads the sidecar metadata for dumpPath.
func Read(dumpPath string) (Meta, error) {
	var meta Meta
	data, err := os.ReadFile(SidecarPath(dumpPath))
	if err != nil {
		return meta, err
	}
	err = yaml.Unmarshal(data, &meta)
	return meta, err
}
