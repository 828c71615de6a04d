package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"i4.energy/across/wifictl/wifi"
)

// maxCertSize is the space reserved for one certificate in module flash.
const maxCertSize = 8 << 10

// Server handles incoming HTTP requests for controlling the configured
// Wi-Fi manager
type Server struct {
	Logger *slog.Logger
	WiFi   *wifi.Manager
	// Auth, when set, guards every route but /healthz
	Auth *Authenticator
}

// ServeHTTP implements the http.Handler interface for the Server struct
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /wifi/on", s.handleOn)
	mux.HandleFunc("POST /wifi/off", s.handleOff)
	mux.HandleFunc("POST /wifi/connect", s.handleConnect)
	mux.HandleFunc("POST /wifi/reconnect", s.handleReconnect)
	mux.HandleFunc("POST /wifi/disconnect", s.handleDisconnect)
	mux.HandleFunc("POST /wifi/reset", s.handleReset)
	mux.HandleFunc("GET /wifi/scan", s.handleScan)
	mux.HandleFunc("GET /wifi/mode", s.handleGetMode)
	mux.HandleFunc("PUT /wifi/mode", s.handleSetMode)
	mux.HandleFunc("GET /wifi/ip", s.handleIP)
	mux.HandleFunc("GET /wifi/mac", s.handleMAC)
	mux.HandleFunc("GET /wifi/resolve", s.handleResolve)
	mux.HandleFunc("POST /wifi/ping", s.handlePing)
	mux.HandleFunc("GET /wifi/status", s.handleStatus)
	mux.HandleFunc("DELETE /wifi/alert", s.handleClearAlert)
	mux.HandleFunc("GET /wifi/pm", s.handleGetPM)
	mux.HandleFunc("PUT /wifi/pm", s.handleSetPM)
	mux.HandleFunc("PUT /wifi/ap", s.handleConfigureAP)
	mux.HandleFunc("POST /wifi/ap/start", s.handleStartAP)
	mux.HandleFunc("POST /wifi/ap/stop", s.handleStopAP)
	mux.HandleFunc("PUT /wifi/certs/{type}", s.handleStoreCert)
	mux.HandleFunc("POST /wifi/profiles", s.handleAddProfile)
	mux.HandleFunc("GET /wifi/profiles/{index}", s.handleGetProfile)
	mux.HandleFunc("DELETE /wifi/profiles/{index}", s.handleDeleteProfile)

	var h http.Handler = mux
	if s.Auth != nil {
		h = s.Auth.Wrap(h)
	}
	h.ServeHTTP(w, r)
}

func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	sendError(w, message, statusCode)
}

func sendError(w http.ResponseWriter, message string, statusCode int) {
	if message == "" {
		w.WriteHeader(statusCode)
		return
	}

	type ErrorResponse struct {
		Message string `json:"message"`
	}
	resp := ErrorResponse{Message: message}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)

}

func (s *Server) sendJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

// statusCode maps the outcome of a Wi-Fi operation to an HTTP status.
func statusCode(err error) int {
	switch wifi.Code(err) {
	case wifi.Success:
		return http.StatusOK
	case wifi.Timeout:
		return http.StatusGatewayTimeout
	case wifi.NotSupported:
		return http.StatusNotImplemented
	default:
		return http.StatusBadGateway
	}
}

// sendResult answers an operation without a payload.
func (s *Server) sendResult(w http.ResponseWriter, op string, err error) {
	if err != nil {
		s.Logger.Error("Wi-Fi operation failed", "op", op, "code", wifi.Code(err), "error", err)
		s.sendError(w, err.Error(), statusCode(err))
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleOn(w http.ResponseWriter, r *http.Request) {
	s.sendResult(w, "on", s.WiFi.On(r.Context()))
}

func (s *Server) handleOff(w http.ResponseWriter, r *http.Request) {
	s.sendResult(w, "off", s.WiFi.Off(r.Context()))
}

type networkRequest struct {
	SSID     string `json:"ssid"`
	Password string `json:"password"`
	Security string `json:"security"`
	Channel  int    `json:"channel"`
}

// params decodes a network request body, answering 400 on failure.
func (s *Server) params(w http.ResponseWriter, r *http.Request) (*wifi.NetworkParams, bool) {
	var req networkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	if req.SSID == "" {
		s.sendError(w, "'ssid' field is required", http.StatusBadRequest)
		return nil, false
	}
	sec, err := wifi.ParseSecurity(req.Security)
	if err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return &wifi.NetworkParams{
		SSID:     req.SSID,
		Password: req.Password,
		Security: sec,
		Channel:  req.Channel,
	}, true
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	params, ok := s.params(w, r)
	if !ok {
		return
	}
	err := s.WiFi.ConnectAP(r.Context(), params)
	if err == nil {
		s.Logger.Info("Connected", "ssid", params.SSID)
	}
	s.sendResult(w, "connect", err)
}

func (s *Server) handleReconnect(w http.ResponseWriter, r *http.Request) {
	s.sendResult(w, "reconnect", s.WiFi.Reconnect(r.Context()))
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	s.sendResult(w, "disconnect", s.WiFi.Disconnect(r.Context()))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.sendResult(w, "reset", s.WiFi.Reset(r.Context()))
}

type scanResult struct {
	SSID     string `json:"ssid"`
	BSSID    string `json:"bssid"`
	RSSI     int    `json:"rssi"`
	Security string `json:"security"`
	Channel  int    `json:"channel"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.sendError(w, "'max' must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	results, err := s.WiFi.Scan(r.Context(), limit)
	if err != nil {
		s.sendResult(w, "scan", err)
		return
	}

	resp := make([]scanResult, 0, len(results))
	for _, res := range results {
		resp = append(resp, scanResult{
			SSID:     res.SSID,
			BSSID:    res.BSSID.String(),
			RSSI:     res.RSSI,
			Security: res.Security.String(),
			Channel:  res.Channel,
		})
	}
	s.sendJSON(w, resp)
}

type modeRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) handleGetMode(w http.ResponseWriter, r *http.Request) {
	mode, err := s.WiFi.GetMode(r.Context())
	if err != nil {
		s.sendResult(w, "get mode", err)
		return
	}
	s.sendJSON(w, modeRequest{Mode: mode.String()})
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.sendResult(w, "set mode", s.WiFi.SetMode(r.Context(), wifi.ParseDeviceMode(req.Mode)))
}

func (s *Server) handleIP(w http.ResponseWriter, r *http.Request) {
	ip, err := s.WiFi.GetIP(r.Context())
	if err != nil {
		s.sendResult(w, "get ip", err)
		return
	}
	s.sendJSON(w, map[string]string{"ip": ip.String()})
}

func (s *Server) handleMAC(w http.ResponseWriter, r *http.Request) {
	mac, err := s.WiFi.GetMAC(r.Context())
	if err != nil {
		s.sendResult(w, "get mac", err)
		return
	}
	s.sendJSON(w, map[string]string{"mac": mac.String()})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	host := r.URL.Query().Get("host")
	if host == "" {
		s.sendError(w, "'host' query parameter is required", http.StatusBadRequest)
		return
	}
	ip, err := s.WiFi.GetHostIP(r.Context(), host)
	if err != nil {
		s.sendResult(w, "resolve", err)
		return
	}
	s.sendJSON(w, map[string]string{"host": host, "ip": ip.String()})
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	type PingRequest struct {
		IP         string `json:"ip"`
		Count      int    `json:"count"`
		IntervalMS int    `json:"interval_ms"`
	}

	var req PingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	ip := net.ParseIP(req.IP)
	if ip == nil {
		s.sendError(w, "'ip' must be an IP address", http.StatusBadRequest)
		return
	}
	if req.Count <= 0 {
		s.sendError(w, "'count' must be a positive integer", http.StatusBadRequest)
		return
	}

	rtts, err := s.WiFi.Ping(r.Context(), ip, req.Count, time.Duration(req.IntervalMS)*time.Millisecond)
	if err != nil {
		s.sendResult(w, "ping", err)
		return
	}
	ms := make([]int64, len(rtts))
	for i, rtt := range rtts {
		ms[i] = rtt.Milliseconds()
	}
	s.sendJSON(w, map[string]any{"ip": ip.String(), "rtt_ms": ms})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	type StatusResponse struct {
		On              bool   `json:"on"`
		Connected       bool   `json:"connected"`
		State           string `json:"state"`
		SSID            string `json:"ssid,omitempty"`
		DisconnectAlert bool   `json:"disconnect_alert"`
	}

	resp := StatusResponse{
		On:              s.WiFi.Initialized(),
		State:           s.WiFi.State().String(),
		SSID:            s.WiFi.LastParams().SSID,
		DisconnectAlert: s.WiFi.DisconnectAlert(),
	}
	if resp.On {
		resp.Connected = s.WiFi.IsConnected(r.Context())
	}
	s.sendJSON(w, resp)
}

func (s *Server) handleClearAlert(w http.ResponseWriter, r *http.Request) {
	s.WiFi.ClearDisconnectAlert()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleGetPM(w http.ResponseWriter, r *http.Request) {
	mode, err := s.WiFi.GetPMMode(r.Context())
	if err != nil {
		s.sendResult(w, "get pm mode", err)
		return
	}
	s.sendJSON(w, modeRequest{Mode: mode.String()})
}

func (s *Server) handleSetPM(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.sendResult(w, "set pm mode", s.WiFi.SetPMMode(r.Context(), wifi.ParsePMMode(req.Mode)))
}

func (s *Server) handleConfigureAP(w http.ResponseWriter, r *http.Request) {
	params, ok := s.params(w, r)
	if !ok {
		return
	}
	s.sendResult(w, "configure ap", s.WiFi.ConfigureAP(r.Context(), params))
}

func (s *Server) handleStartAP(w http.ResponseWriter, r *http.Request) {
	s.sendResult(w, "start ap", s.WiFi.StartAP(r.Context()))
}

func (s *Server) handleStopAP(w http.ResponseWriter, r *http.Request) {
	s.sendResult(w, "stop ap", s.WiFi.StopAP(r.Context()))
}

func (s *Server) handleStoreCert(w http.ResponseWriter, r *http.Request) {
	var typ wifi.CertType
	switch r.PathValue("type") {
	case "ca":
		typ = wifi.CertClientCA
	case "cert":
		typ = wifi.CertClientCert
	case "key":
		typ = wifi.CertClientKey
	default:
		s.sendError(w, "certificate type must be one of ca, cert, key", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxCertSize+1))
	if err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(data) == 0 || len(data) > maxCertSize {
		s.sendError(w, "certificate body is empty or too large", http.StatusBadRequest)
		return
	}
	s.sendResult(w, "store cert", s.WiFi.StoreCert(r.Context(), typ, data))
}

type profileResponse struct {
	Index    int    `json:"index"`
	SSID     string `json:"ssid"`
	Security string `json:"security"`
}

func (s *Server) handleAddProfile(w http.ResponseWriter, r *http.Request) {
	params, ok := s.params(w, r)
	if !ok {
		return
	}
	i, err := s.WiFi.NetworkAdd(wifi.NetworkProfile{
		SSID:     params.SSID,
		Password: params.Password,
		Security: params.Security,
	})
	if err != nil {
		s.sendResult(w, "add profile", err)
		return
	}
	s.sendJSON(w, profileResponse{Index: i, SSID: params.SSID, Security: params.Security.String()})
}

func (s *Server) profileIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || i < 0 {
		s.sendError(w, "profile index must be a non-negative integer", http.StatusBadRequest)
		return 0, false
	}
	return i, true
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	i, ok := s.profileIndex(w, r)
	if !ok {
		return
	}
	p, err := s.WiFi.NetworkGet(i)
	if err != nil {
		s.sendResult(w, "get profile", err)
		return
	}
	// The password is never returned
	s.sendJSON(w, profileResponse{Index: i, SSID: p.SSID, Security: p.Security.String()})
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	i, ok := s.profileIndex(w, r)
	if !ok {
		return
	}
	s.sendResult(w, "delete profile", s.WiFi.NetworkDelete(i))
}
