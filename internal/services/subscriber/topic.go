package subscriber

import (
	"fmt"
	"strings"
)

const (
	dataTopicPrefix   = "agriconnect/data/"
	statusTopicPrefix = "agriconnect/status/"
)

// parseDataTopic extracts gateway, field and zone from a telemetry topic
// "agriconnect/data/{gatewayID}/{fieldID}/{zoneID}".
func parseDataTopic(topic string) (gatewayID, fieldID, zoneID string, err error) {
	suffix := strings.TrimPrefix(topic, dataTopicPrefix)
	if suffix == topic {
		return "", "", "", fmt.Errorf("not a data topic: %s", topic)
	}
	parts := strings.Split(suffix, "/")
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("malformed data topic: %s", topic)
	}
	return parts[0], parts[1], parts[2], nil
}

// parseStatusTopic extracts the gateway from a status topic
// "agriconnect/status/{gatewayID}".
func parseStatusTopic(topic string) (gatewayID string, err error) {
	suffix := strings.TrimPrefix(topic, statusTopicPrefix)
	if suffix == topic || suffix == "" || strings.Contains(suffix, "/") {
		return "", fmt.Errorf("malformed status topic: %s", topic)
	}
	return suffix, nil
}
