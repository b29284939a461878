package system

import (
	"net"
	"sort"
	"strings"
)

// ReachableURLs lists the http URLs under which a server bound to listenAddr
// can be opened from other machines. A concrete host is returned as is; an
// unspecified one expands to every non-loopback IPv4 address.
func ReachableURLs(listenAddr string) []string {
	host, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return nil
	}
	if host != "" && host != "0.0.0.0" && host != "::" {
		return []string{"http://" + net.JoinHostPort(host, port) + "/"}
	}
	return urlsFor(interfaceIPv4s(), port)
}

func urlsFor(ips []net.IP, port string) []string {
	var urls []string
	for _, ip := range ips {
		if ip == nil || ip.IsLoopback() || ip.To4() == nil {
			continue
		}
		urls = append(urls, "http://"+net.JoinHostPort(ip.String(), port)+"/")
	}
	sort.Strings(urls)
	if len(urls) == 0 {
		urls = []string{"http://" + net.JoinHostPort("127.0.0.1", port) + "/"}
	}
	return urls
}

func interfaceIPv4s() []net.IP {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil
	}
	var ips []net.IP
	for _, a := range addrs {
		ipNet, ok := a.(*net.IPNet)
		if !ok || strings.HasPrefix(ipNet.IP.String(), "169.254.") {
			continue
		}
		ips = append(ips, ipNet.IP)
	}
	return ips
}
