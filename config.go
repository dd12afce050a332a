package main

import (
	"fmt"

	"github.com/vantage-iot/bearer-core/bearer"
)

// Options is the daemon's command-line and environment configuration
// surface, parsed by go-flags in main.
type Options struct {
	SerialPort          string `long:"serial-port" env:"SERIAL_PORT" default:"/dev/ttyUSB0" description:"primary AT port device"`
	SecondarySerialPort string `long:"secondary-serial-port" env:"SECONDARY_SERIAL_PORT" description:"secondary AT port device, used for control traffic while the primary is in data mode"`
	BaudRate            int    `long:"baud-rate" env:"BAUD_RATE" default:"115200" description:"baud rate for both serial ports"`

	APN    string `long:"apn" env:"APN" description:"3GPP access point name; omit entirely to request a CDMA data call instead"`
	HasAPN bool   `no-flag:"true"`
	IPFamily    string `long:"ip-family" env:"IP_FAMILY" default:"any" choice:"v4" choice:"v6" choice:"v4v6" choice:"any" description:"requested IP family for a 3GPP session; v4v6 requests explicit dual-stack, any lets the modem decide"`
	RMProtocol  int    `long:"rm-protocol" env:"RM_PROTOCOL" default:"-1" description:"requested CDMA Rm interface protocol index, -1 to leave unchanged"`
	DialNumber  string `long:"dial-number" env:"DIAL_NUMBER" default:"#777" description:"CDMA dial string"`
	FlowControl string `long:"flow-control" env:"FLOW_CONTROL" default:"none" choice:"none" choice:"software" choice:"hardware" description:"line discipline applied to the data port after dial"`

	BindAddress string `long:"bind-address" env:"BIND_ADDRESS" default:"0.0.0.0:8080" description:"HTTP API bind address"`
	LogLevel    string `long:"log-level" env:"LOG_LEVEL" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error"`

	MQTTBroker      string `long:"mqtt-broker" env:"MQTT_BROKER" description:"tcp://host:port of an MQTT broker to publish connection status to; disabled if empty"`
	MQTTClientID    string `long:"mqtt-client-id" env:"MQTT_CLIENT_ID" default:"bearer-core" description:"MQTT client id"`
	MQTTStatusTopic string `long:"mqtt-status-topic" env:"MQTT_STATUS_TOPIC" default:"bearer/status" description:"MQTT topic connection status is published to"`
}

// ipFamily maps the CLI choice onto the bearer package's bitmask type.
func (o *Options) ipFamily() (bearer.IPFamily, error) {
	switch o.IPFamily {
	case "v4":
		return bearer.IPFamilyIPv4, nil
	case "v6":
		return bearer.IPFamilyIPv6, nil
	case "v4v6":
		return bearer.IPFamilyIPv4v6, nil
	case "any", "":
		return bearer.IPFamilyAny, nil
	default:
		return bearer.IPFamilyNone, fmt.Errorf("unknown ip-family %q", o.IPFamily)
	}
}

func (o *Options) flowControl() (bearer.FlowControl, error) {
	switch o.FlowControl {
	case "none", "":
		return bearer.FlowControlNone, nil
	case "software":
		return bearer.FlowControlSoftware, nil
	case "hardware":
		return bearer.FlowControlHardware, nil
	default:
		return bearer.FlowControlNone, fmt.Errorf("unknown flow-control %q", o.FlowControl)
	}
}

// bearerConfig builds the bearer.Config this daemon will Connect with. An
// empty APN flag means "flag not supplied at all" is indistinguishable from
// "supplied empty" on the CLI, so HasAPN (set once go-flags has parsed,
// from whether --apn appeared) disambiguates the CDMA-vs-3GPP choice the
// same way bearer.Config.APN's pointer does internally.
func (o *Options) bearerConfig() (bearer.Config, error) {
	if !o.HasAPN {
		rm := bearer.RMProtocol(o.RMProtocol)
		return bearer.NewConfigCDMA(o.DialNumber, rm), nil
	}
	fam, err := o.ipFamily()
	if err != nil {
		return bearer.Config{}, err
	}
	return bearer.NewConfig3GPP(o.APN, fam), nil
}
