// Package env provides the command line environment shared by the commands.
package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// AppID salts the machine id so it isn't exposed directly.
const AppID = "streams.go"

// DeviceID retrieves an ID identifying this machine. It falls back to the
// host name when the machine id is unavailable.
func DeviceID() string {
	id, err := machineid.ProtectedID(AppID)
	if err == nil {
		return id[:16]
	}
	glog.Warningf("machine id unavailable: %v", err)
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "unknown"
}
