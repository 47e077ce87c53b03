// Package gatewaytest runs an in-memory scheduling service for tests.
package gatewaytest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/julianstephens/slotbook/internal/constants"
)

// Slot is the service-side record. IDs are numeric on the wire.
type Slot struct {
	ID        int64    `json:"id"`
	Date      []int    `json:"date"`
	StartTime []int    `json:"startTime"`
	EndTime   []int    `json:"endTime"`
	Scheduled bool     `json:"scheduled"`
	User      *Patient `json:"user"`
}

type Patient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Call is one request the service received
type Call struct {
	Method string
	Path   string
	Token  string
}

type account struct {
	name     string
	password string
	role     constants.Role
}

type failure struct {
	status int
	body   string
}

// Server is a fake scheduling service
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	slots    []*Slot
	nextID   int64
	accounts map[string]account
	tokens   map[string]string // token -> email
	calls    []Call
	failNext *failure
}

// NewServer starts the fake. It is closed when the test ends via Close.
func NewServer() *Server {
	s := &Server{
		nextID:   1,
		accounts: map[string]account{},
		tokens:   map[string]string{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+constants.PathAvailable, s.handleAvailable)
	mux.HandleFunc("GET "+constants.PathAdminAll, s.admin(s.handleAll))
	mux.HandleFunc("GET "+constants.PathGetAppointment+"{id}", s.authed(s.handleGet))
	mux.HandleFunc("POST "+constants.PathAdminAdd, s.admin(s.handleAdd))
	mux.HandleFunc("PUT "+constants.PathAdminUpdate+"{id}", s.admin(s.handleUpdate))
	mux.HandleFunc("DELETE "+constants.PathAdminDelete+"{id}", s.admin(s.handleDelete))
	mux.HandleFunc("POST "+constants.PathBook, s.authed(s.handleBook))
	mux.HandleFunc("POST "+constants.PathCancel+"{id}", s.authed(s.handleCancel))
	mux.HandleFunc("GET "+constants.PathUserAppts+"{email}", s.authed(s.handleMine))
	mux.HandleFunc("POST "+constants.PathLogin, s.handleLogin)
	mux.HandleFunc("POST "+constants.PathSignup, s.handleSignup)
	s.Server = httptest.NewServer(s.record(mux))
	return s
}

// AddAccount registers a user and returns a token already issued to them
func (s *Server) AddAccount(email, password, name string, role constants.Role) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[email] = account{name: name, password: password, role: role}
	return s.issueLocked(email)
}

// AddSlot seeds an unscheduled slot and returns its id
func (s *Server) AddSlot(date, start, end []int) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(date, start, end).ID
}

// Seed stores a slot exactly as given, including malformed fields
func (s *Server) Seed(slot Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot.ID >= s.nextID {
		s.nextID = slot.ID + 1
	}
	cp := slot
	s.slots = append(s.slots, &cp)
}

// Slot returns a copy of the stored slot
func (s *Server) Slot(id int64) (Slot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot := s.findLocked(id); slot != nil {
		return *slot, true
	}
	return Slot{}, false
}

// FailNext makes the next request fail with status and body
func (s *Server) FailNext(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = &failure{status: status, body: body}
}

// Calls returns every request received so far
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path, Token: bearer(r)})
		fail := s.failNext
		s.failNext = nil
		s.mu.Unlock()

		if fail != nil {
			w.WriteHeader(fail.status)
			_, _ = io.WriteString(w, fail.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearer(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get(constants.HeaderAuthorization), "Bearer ")
}

func (s *Server) caller(r *http.Request) (string, account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.tokens[bearer(r)]
	if !ok {
		return "", account{}, false
	}
	acct, ok := s.accounts[email]
	return email, acct, ok
}

func (s *Server) authed(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := s.caller(r); !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		h(w, r)
	}
}

func (s *Server) admin(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, acct, ok := s.caller(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if acct.role != constants.RoleAdmin {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(constants.HeaderContentType, constants.MIMEApplicationJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleAvailable(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := []Slot{}
	for _, slot := range s.slots {
		if !slot.Scheduled {
			out = append(out, *slot)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAll(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]Slot, 0, len(s.slots))
	for _, slot := range s.slots {
		out = append(out, *slot)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMine(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	s.mu.Lock()
	out := []Slot{}
	for _, slot := range s.slots {
		if slot.User != nil && slot.User.Email == email {
			out = append(out, *slot)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	slot, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, slot)
}

type slotBody struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func (b slotBody) parse() ([]int, []int, []int, error) {
	d, err := time.Parse(constants.DateFormat, b.Date)
	if err != nil {
		return nil, nil, nil, err
	}
	st, err := time.Parse(constants.TimeFormat, b.StartTime)
	if err != nil {
		return nil, nil, nil, err
	}
	et, err := time.Parse(constants.TimeFormat, b.EndTime)
	if err != nil {
		return nil, nil, nil, err
	}
	return []int{d.Year(), int(d.Month()), d.Day()}, []int{st.Hour(), st.Minute()}, []int{et.Hour(), et.Minute()}, nil
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var body slotBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	date, start, end, err := body.parse()
	if err != nil {
		http.Error(w, "Invalid date or time", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	slot := *s.addLocked(date, start, end)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, slot)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body slotBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	date, start, end, err := body.parse()
	if err != nil {
		http.Error(w, "Invalid date or time", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	slot := s.findLocked(id)
	if slot == nil {
		s.mu.Unlock()
		http.Error(w, "Appointment not found", http.StatusNotFound)
		return
	}
	slot.Date, slot.StartTime, slot.EndTime = date, start, end
	out := *slot
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, slot := range s.slots {
		if slot.ID == id {
			s.slots = append(s.slots[:i], s.slots[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	http.Error(w, "Appointment not found", http.StatusNotFound)
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AppointmentID string `json:"appointmentId"`
		Name          string `json:"name"`
		Email         string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	id, err := strconv.ParseInt(body.AppointmentID, 10, 64)
	if err != nil {
		http.Error(w, "Invalid appointment id", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	slot := s.findLocked(id)
	switch {
	case slot == nil:
		http.Error(w, "Appointment not found", http.StatusNotFound)
	case slot.Scheduled:
		http.Error(w, "Appointment is already booked", http.StatusConflict)
	default:
		slot.Scheduled = true
		slot.User = &Patient{Name: body.Name, Email: body.Email}
		_, _ = io.WriteString(w, "Appointment booked successfully")
	}
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	slot := s.findLocked(id)
	if slot == nil {
		http.Error(w, "Appointment not found", http.StatusNotFound)
		return
	}
	slot.Scheduled = false
	slot.User = nil
	_, _ = io.WriteString(w, "Appointment cancelled")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	acct, ok := s.accounts[body.Email]
	if !ok || acct.password != body.Password {
		s.mu.Unlock()
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	token := s.issueLocked(body.Email)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{
		"token": token,
		"role":  string(acct.role),
		"email": body.Email,
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[body.Email]; exists {
		http.Error(w, "Email already registered", http.StatusConflict)
		return
	}
	s.accounts[body.Email] = account{name: body.Name, password: body.Password, role: constants.RolePatient}
	_, _ = io.WriteString(w, "User registered successfully")
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (Slot, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return Slot{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	slot := s.findLocked(id)
	if slot == nil {
		http.Error(w, "Appointment not found", http.StatusNotFound)
		return Slot{}, false
	}
	return *slot, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid appointment id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (s *Server) addLocked(date, start, end []int) *Slot {
	slot := &Slot{ID: s.nextID, Date: date, StartTime: start, EndTime: end}
	s.nextID++
	s.slots = append(s.slots, slot)
	return slot
}

func (s *Server) findLocked(id int64) *Slot {
	for _, slot := range s.slots {
		if slot.ID == id {
			return slot
		}
	}
	return nil
}

func (s *Server) issueLocked(email string) string {
	token := fmt.Sprintf("hdr.%d.sig", len(s.tokens)+1)
	s.tokens[token] = email
	return token
}
