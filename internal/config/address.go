package config

import (
	"net"
	"os"
)

// ServiceAddress builds the hostname/ip:port origin tag stamped on entities
// returned by this instance.
func ServiceAddress(port string) string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	ip := "127.0.0.1"
	if addrs, err := net.LookupHost(host); err == nil && len(addrs) > 0 {
		ip = addrs[0]
	}
	return host + "/" + ip + ":" + port
}
