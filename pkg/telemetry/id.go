package telemetry

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// ControllerID identifies this machine without exposing its raw machine ID.
func ControllerID() string {
	id, err := machineid.ProtectedID("romi")
	if err != nil {
		glog.Warningf("machine id unavailable: %v", err)
		return "unknown"
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}

// Topic is where a controller publishes snapshots, relative to the link prefix.
func Topic(controllerID string) string {
	return "romi/" + controllerID + "/telemetry"
}
