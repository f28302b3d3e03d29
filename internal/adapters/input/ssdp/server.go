// Package ssdp answers UPnP discovery so voice assistants find the bridge.
package ssdp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"
)

const multicastAddr = "239.255.255.250:1900"

type Server struct {
	ip   string
	port int
	log  *slog.Logger
}

func NewServer(ip string, port int, log *slog.Logger) *Server {
	if port == 0 {
		port = 80
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{ip: ip, port: port, log: log}
}

// Start listens until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp4", multicastAddr)
	if err != nil {
		return err
	}

	conn, err := net.ListenMulticastUDP("udp4", nil, addr)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	s.log.Info("ssdp responder listening", "addr", multicastAddr, "location", s.location())

	buf := make([]byte, 1024)
	for {
		n, src, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Debug("ssdp read failed", "error", err)
			time.Sleep(100 * time.Millisecond)
			continue
		}

		if shouldRespond(string(buf[:n])) {
			s.respond(src)
		}
	}
}

// shouldRespond matches the searches Echo devices send: basic:1,
// upnp:rootdevice or ssdp:all.
func shouldRespond(msg string) bool {
	if !strings.Contains(msg, "M-SEARCH") {
		return false
	}
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "urn:schemas-upnp-org:device:basic:1") ||
		strings.Contains(lower, "upnp:rootdevice") ||
		strings.Contains(lower, "ssdp:all")
}

func (s *Server) location() string {
	return fmt.Sprintf("http://%s:%d/description.xml", s.ip, s.port)
}

func (s *Server) response() []byte {
	return []byte("HTTP/1.1 200 OK\r\n" +
		"CACHE-CONTROL: max-age=100\r\n" +
		"EXT:\r\n" +
		"LOCATION: " + s.location() + "\r\n" +
		"SERVER: FreeRTOS/6.0.5, UPnP/1.1, IpBridge/1.17.0\r\n" +
		"ST: urn:schemas-upnp-org:device:basic:1\r\n" +
		"USN: uuid:2f402f80-da50-11e1-9b23-001788102201::urn:schemas-upnp-org:device:basic:1\r\n\r\n")
}

func (s *Server) respond(dest *net.UDPAddr) {
	conn, err := net.DialUDP("udp4", nil, dest)
	if err != nil {
		s.log.Debug("ssdp dial failed", "dest", dest.String(), "error", err)
		return
	}
	defer conn.Close()

	if _, err := conn.Write(s.response()); err != nil {
		s.log.Debug("ssdp write failed", "dest", dest.String(), "error", err)
	}
}
