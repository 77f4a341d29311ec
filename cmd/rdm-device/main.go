// rdm-device runs an RDM responder on a serial bus.
//
// Usage:
//
//	rdm-device [options]
//
// Options:
//
//	-config  Path to a YAML configuration file
//	-serial  Serial device (overrides the config file)
//	-uid     Responder UID, e.g. 7a70:01020304 (overrides the config file)
//	-baud    Baud rate (default: 250000)
//
// Example:
//
//	rdm-device -serial /dev/ttyUSB0 -uid 7a70:01020304
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pion/logging"

	"github.com/openlighting/rdm-responder/pkg/config"
	"github.com/openlighting/rdm-responder/pkg/responder"
	"github.com/openlighting/rdm-responder/pkg/transport"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	serialAddr := flag.String("serial", "", "serial device (overrides the config file)")
	uidFlag := flag.String("uid", "", "responder UID (overrides the config file)")
	baudRate := flag.Int("baud", 0, "baud rate (overrides the config file)")
	flag.Parse()

	cfg := &config.Config{}
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *serialAddr != "" {
		cfg.Serial.Address = *serialAddr
	}
	if *uidFlag != "" {
		cfg.Device.UID = *uidFlag
	}
	if *baudRate != 0 {
		cfg.Serial.BaudRate = *baudRate
	}
	if *configPath == "" {
		// Flags-only invocation still needs defaults and validation.
		cfg.ApplyDefaults()
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	loggerFactory := logging.NewDefaultLoggerFactory()

	rdm := responder.New(responder.Config{
		Settings:      cfg.Settings(),
		LoggerFactory: loggerFactory,
	})

	uart, err := transport.OpenUART(transport.UARTConfig{
		Address:       cfg.Serial.Address,
		BaudRate:      cfg.Serial.BaudRate,
		Handler:       rdm,
		LoggerFactory: loggerFactory,
	})
	if err != nil {
		log.Fatalf("Failed to open serial port: %v", err)
	}
	rdm.SetSend(uart.Send)

	uart.Start()
	log.Printf("rdm-device %s listening on %s", rdm.UID(), cfg.Serial.Address)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	if err := uart.Close(); err != nil {
		log.Printf("Close failed: %v", err)
	}
}
