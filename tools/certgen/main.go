// Package main writes a self-signed server certificate and key for running
// the sign-up server with -tls-cert and -tls-key.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atinyakov/GophSignup/internal/certgen"
)

func main() {
	var (
		dir      string
		hosts    string
		validFor time.Duration
	)
	flag.StringVar(&dir, "dir", "certs", "output directory")
	flag.StringVar(&hosts, "hosts", "localhost,127.0.0.1", "comma separated DNS names and IPs")
	flag.DurationVar(&validFor, "valid-for", 365*24*time.Hour, "certificate lifetime")
	flag.Parse()

	certPath := filepath.Join(dir, "server.crt")
	keyPath := filepath.Join(dir, "server.key")

	certPEM, keyPEM, err := certgen.GenerateSelfSigned(splitHosts(hosts), validFor)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := certgen.WriteFiles(certPath, keyPath, certPEM, keyPEM); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Certificate written to %s\n", certPath)
	fmt.Printf("Run the server with: -tls-cert %s -tls-key %s\n", certPath, keyPath)
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
