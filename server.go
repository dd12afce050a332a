package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vantage-iot/bearer-core/bearer"
)

// Server exposes the bearer's connect/disconnect/status operations over
// HTTP for whatever orchestrates this daemon (a supervisor process, a
// provisioning UI).
type Server struct {
	Logger *slog.Logger
	Bearer *bearer.Bearer
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /bearer/connect", s.handleConnect)
	mux.HandleFunc("POST /bearer/disconnect", s.handleDisconnect)
	mux.HandleFunc("GET /bearer/status", s.handleStatus)
	mux.ServeHTTP(w, r)
}

type errorResponse struct {
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

func (s *Server) sendError(w http.ResponseWriter, err error, statusCode int) {
	resp := errorResponse{Message: err.Error()}
	var berr *bearer.Error
	if errors.As(err, &berr) {
		resp.Kind = berr.Kind.String()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

// httpStatus maps a bearer error kind onto the HTTP status code a client
// should react to.
func httpStatus(err error) int {
	var berr *bearer.Error
	if !errors.As(err, &berr) {
		return http.StatusInternalServerError
	}
	switch berr.Kind {
	case bearer.ErrKindAlreadyConnected, bearer.ErrKindNotConnected:
		return http.StatusConflict
	case bearer.ErrKindInvalidArgs:
		return http.StatusBadRequest
	case bearer.ErrKindCancelled:
		return http.StatusRequestTimeout
	case bearer.ErrKindNotSupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

type connectResponse struct {
	Device         string       `json:"device"`
	ConnectionType string       `json:"connection_type"`
	Cid            int          `json:"cid,omitempty"`
	IPv4           *ipConfigDTO `json:"ipv4,omitempty"`
	IPv6           *ipConfigDTO `json:"ipv6,omitempty"`
}

type ipConfigDTO struct {
	Method  string   `json:"method"`
	Address string   `json:"address,omitempty"`
	Prefix  int      `json:"prefix,omitempty"`
	Gateway string   `json:"gateway,omitempty"`
	DNS     []string `json:"dns,omitempty"`
}

func toDTO(c *bearer.IPConfig) *ipConfigDTO {
	if c == nil {
		return nil
	}
	return &ipConfigDTO{
		Method:  c.Method.String(),
		Address: c.Address,
		Prefix:  c.Prefix,
		Gateway: c.Gateway,
		DNS:     c.DNS,
	}
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	result, err := s.Bearer.Connect(r.Context())
	if err != nil {
		s.Logger.Error("connect failed", "error", err)
		s.sendError(w, err, httpStatus(err))
		return
	}

	resp := connectResponse{
		Device:         result.DataPort.GetDevice(),
		ConnectionType: s.Bearer.ConnectionType().String(),
		Cid:            s.Bearer.GetCid(),
		IPv4:           toDTO(result.IPv4),
		IPv6:           toDTO(result.IPv6),
	}
	s.Logger.Info("bearer connected", "device", resp.Device, "type", resp.ConnectionType)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := s.Bearer.Disconnect(r.Context()); err != nil {
		s.Logger.Error("disconnect failed", "error", err)
		s.sendError(w, err, httpStatus(err))
		return
	}
	s.Logger.Info("bearer disconnected")
	w.WriteHeader(http.StatusOK)
}

type statusResponse struct {
	ConnectionType string `json:"connection_type"`
	Status         string `json:"status"`
	Cid            int    `json:"cid,omitempty"`
	Device         string `json:"device,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		ConnectionType: s.Bearer.ConnectionType().String(),
		Cid:            s.Bearer.GetCid(),
	}
	if p := s.Bearer.DataPort(); p != nil {
		resp.Device = p.GetDevice()
	}

	status, err := s.Bearer.LoadConnectionStatus(r.Context())
	if err != nil {
		s.Logger.Warn("status query failed, reporting cached state", "error", err)
		resp.Status = "unknown"
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
		return
	}
	resp.Status = status.String()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
