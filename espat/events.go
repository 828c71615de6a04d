package espat

import (
	"strings"

	"i4.energy/across/wifictl/at"
)

// EventType identifies an asynchronous report from the module.
type EventType int

const (
	EventUnknown EventType = iota
	// EventReady is reported once the firmware has booted.
	EventReady
	// EventConnected is reported when the station associated with an AP.
	EventConnected
	// EventGotIP is reported when the station obtained an address.
	EventGotIP
	// EventDisconnected is reported when the station lost its AP, whether
	// requested or not.
	EventDisconnected
	// EventStationJoined is reported in soft-AP mode when a client joins.
	EventStationJoined
	// EventStationLeft is reported in soft-AP mode when a client leaves.
	EventStationLeft
	// EventStationIP is reported in soft-AP mode when a client got a lease.
	EventStationIP
)

func (t EventType) String() string {
	switch t {
	case EventReady:
		return "ready"
	case EventConnected:
		return "connected"
	case EventGotIP:
		return "got-ip"
	case EventDisconnected:
		return "disconnected"
	case EventStationJoined:
		return "station-joined"
	case EventStationLeft:
		return "station-left"
	case EventStationIP:
		return "station-ip"
	default:
		return "unknown"
	}
}

// Event is an asynchronous report received from the module.
type Event struct {
	Type EventType
	// Raw is the report line as received.
	Raw string
}

func parseEvent(line string) Event {
	ev := Event{Raw: line}
	switch {
	case line == at.UrcReady:
		ev.Type = EventReady
	case line == at.UrcWifiConnected:
		ev.Type = EventConnected
	case line == at.UrcWifiGotIP:
		ev.Type = EventGotIP
	case line == at.UrcWifiDisconnect:
		ev.Type = EventDisconnected
	case strings.HasPrefix(line, at.UrcStaConnected):
		ev.Type = EventStationJoined
	case strings.HasPrefix(line, at.UrcStaDisconnected):
		ev.Type = EventStationLeft
	case strings.HasPrefix(line, at.UrcDistStaIP):
		ev.Type = EventStationIP
	}
	return ev
}
