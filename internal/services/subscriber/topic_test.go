package subscriber

import "testing"

func TestParseDataTopic(t *testing.T) {
	cases := []struct {
		topic   string
		gateway string
		field   string
		zone    string
		wantErr bool
	}{
		{"agriconnect/data/GW-1/1/0", "GW-1", "1", "0", false},
		{"agriconnect/data/GW-NORTH-02/3/12", "GW-NORTH-02", "3", "12", false},
		{"agriconnect/data/GW-1/1", "", "", "", true},
		{"agriconnect/data//1/0", "", "", "", true},
		{"agriconnect/status/GW-1", "", "", "", true},
		{"other/data/GW-1/1/0", "", "", "", true},
	}
	for _, tc := range cases {
		gw, field, zone, err := parseDataTopic(tc.topic)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%s: expected error, got %s/%s/%s", tc.topic, gw, field, zone)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %v", tc.topic, err)
			continue
		}
		if gw != tc.gateway || field != tc.field || zone != tc.zone {
			t.Errorf("%s: parsed %s/%s/%s, want %s/%s/%s",
				tc.topic, gw, field, zone, tc.gateway, tc.field, tc.zone)
		}
	}
}

func TestParseStatusTopic(t *testing.T) {
	gw, err := parseStatusTopic("agriconnect/status/GW-1")
	if err != nil || gw != "GW-1" {
		t.Errorf("parsed %q, %v", gw, err)
	}
	for _, topic := range []string{
		"agriconnect/status/",
		"agriconnect/status/GW-1/extra",
		"agriconnect/data/GW-1/1/0",
	} {
		if _, err := parseStatusTopic(topic); err == nil {
			t.Errorf("%s: expected error", topic)
		}
	}
}
