// Package main writes a self-signed development certificate and key for the
// API server, by default to certs/server.crt and certs/server.key.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/atinyakov/baristafolio/internal/certgen"
)

func main() {
	var (
		hosts    string
		certPath string
		keyPath  string
		validFor time.Duration
	)
	flag.StringVar(&hosts, "hosts", "localhost,127.0.0.1", "comma-separated DNS names and IPs")
	flag.StringVar(&certPath, "cert", "certs/server.crt", "certificate output path")
	flag.StringVar(&keyPath, "key", "certs/server.key", "private key output path")
	flag.DurationVar(&validFor, "valid-for", 365*24*time.Hour, "certificate lifetime")
	flag.Parse()

	if err := run(splitHosts(hosts), certPath, keyPath, validFor); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Certificate written to %s and %s\n", certPath, keyPath)
	fmt.Printf("Start the server with TLS_CERT_FILE=%s TLS_KEY_FILE=%s\n", certPath, keyPath)
}

func run(hosts []string, certPath, keyPath string, validFor time.Duration) error {
	certPEM, keyPEM, err := certgen.SelfSigned(hosts, validFor)
	if err != nil {
		return err
	}
	return certgen.WriteFiles(certPath, keyPath, certPEM, keyPEM)
}

func splitHosts(s string) []string {
	var out []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}
