package helper

import (
	"net"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

var xForwardedForHeader = http.CanonicalHeaderKey("X-Forwarded-For")
var xRealIPHeader = http.CanonicalHeaderKey("X-Real-IP")
var trueClientIPHeader = http.CanonicalHeaderKey("True-Client-Ip")

var cidrs []*net.IPNet

func init() {
	maxCidrBlocks := []string{
		"127.0.0.1/8",    // localhost
		"10.0.0.0/8",     // 24-bit block
		"172.16.0.0/12",  // 20-bit block
		"192.168.0.0/16", // 16-bit block
		"169.254.0.0/16", // link local address
		"::1/128",        // localhost IPv6
		"fc00::/7",       // unique local address IPv6
		"fe80::/10",      // link local address IPv6
	}

	cidrs = make([]*net.IPNet, len(maxCidrBlocks))
	for i, maxCidrBlock := range maxCidrBlocks {
		_, cidr, _ := net.ParseCIDR(maxCidrBlock)
		cidrs[i] = cidr
	}
}

func isPrivateAddress(address string) (bool, error) {
	ipAddress := net.ParseIP(address)
	if ipAddress == nil {
		return false, errors.New("address is not valid")
	}

	for i := range cidrs {
		if cidrs[i].Contains(ipAddress) {
			return true, nil
		}
	}

	return false, nil
}

// FromRequest 从请求头提取真实客户端IP，取不到有效值时退回 RemoteAddr
func FromRequest(r *http.Request) string {
	if r == nil {
		return "unknown"
	}

	for _, h := range []string{xRealIPHeader, trueClientIPHeader} {
		if ip := validateAndCleanIP(r.Header.Get(h)); ip != "" {
			return ip
		}
	}

	// X-Forwarded-For 可能是 "client, proxy1, proxy2"，取第一个公网地址
	if forwarded := r.Header.Get(xForwardedForHeader); forwarded != "" {
		for _, address := range strings.Split(forwarded, ",") {
			address = strings.TrimSpace(address)
			if address == "" {
				continue
			}
			if isPrivate, err := isPrivateAddress(address); err == nil && !isPrivate {
				return address
			}
		}
	}

	remoteIP := r.RemoteAddr
	if strings.ContainsRune(remoteIP, ':') {
		if host, _, err := net.SplitHostPort(remoteIP); err == nil {
			remoteIP = host
		}
	}
	if ip := validateAndCleanIP(remoteIP); ip != "" {
		return ip
	}

	return "unknown"
}

func IpInList(ip string, ipList []string) bool {
	for _, v := range ipList {
		if v == ip {
			return true
		}
	}
	return false
}

// validateAndCleanIP 验证并清理IP地址
func validateAndCleanIP(ip string) string {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return ""
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return ""
	}
	if parsedIP.IsUnspecified() {
		return ""
	}

	return ip
}
