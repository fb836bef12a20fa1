package web

import (
	"context"
	"crypto/subtle"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"mitra/internal/calendar"
	"mitra/internal/config"
	"mitra/internal/core"
	"mitra/internal/events"
	"mitra/internal/ics"
	"mitra/internal/jalali"
	appLog "mitra/internal/log"
	"mitra/internal/messages"
	"mitra/internal/model"
)

//go:embed templates/calendar.html
var templateFS embed.FS

var calendarTmpl = template.Must(template.ParseFS(templateFS, "templates/calendar.html"))

// Server serves the calendar API and the /calendar page.
type Server struct {
	cfg    *config.Config
	mux    *http.ServeMux
	loc    *time.Location
	agenda *ics.Agenda
	now    func() time.Time
}

// NewServer constructs a Server. agenda may be nil when no feeds are
// configured.
func NewServer(cfg *config.Config, agenda *ics.Agenda) *Server {
	loc, err := cfg.Location()
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", cfg.Timezone)
		loc = time.Local
	}
	s := &Server{
		cfg:    cfg,
		mux:    http.NewServeMux(),
		loc:    loc,
		agenda: agenda,
		now:    time.Now,
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured. Empty
// credentials disable it.
func (s *Server) basicAuthEnabled() bool {
	return s.cfg.BasicAuth != nil && s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="mitra", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Run serves on cfg.Listen until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen, "basic_auth", s.basicAuthEnabled())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/now", s.handleNow)
	s.mux.HandleFunc("GET /api/convert", s.handleConvert)
	s.mux.HandleFunc("GET /api/info", s.handleInfo)
	s.mux.HandleFunc("GET /api/format", s.handleFormat)
	s.mux.HandleFunc("GET /api/month", s.handleMonth)
	s.mux.HandleFunc("GET /api/events", s.handleEvents)
	s.mux.HandleFunc("GET /api/agenda", s.handleAgenda)
	s.mux.HandleFunc("GET /calendar", s.handleCalendar)
	s.mux.HandleFunc("GET /preview.png", s.handlePreview)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// current returns the Persian date and time on the configured zone's wall
// clock.
func (s *Server) current() (jalali.DateTime, error) {
	return jalali.FromGregorian(s.now().In(s.loc))
}

// inputOrNow parses the "date" query parameter, or returns the current
// time when it is absent.
func (s *Server) inputOrNow(r *http.Request) (jalali.DateTime, bool, error) {
	in := r.URL.Query().Get("date")
	if in == "" {
		dt, err := s.current()
		return dt, true, err
	}
	return core.ParseInput(in)
}

type nowResponse struct {
	DateTime  string `json:"datetime"`
	Date      string `json:"date"`
	Weekday   string `json:"weekday"`
	Long      string `json:"long"`
	Gregorian string `json:"gregorian"`
	TimeZone  string `json:"timezone"`
}

func (s *Server) handleNow(w http.ResponseWriter, _ *http.Request) {
	now := s.now().In(s.loc)
	dt, err := jalali.FromGregorian(now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, messages.Wrap(err, "reading the clock"))
		return
	}
	wd, err := dt.Date().Weekday()
	if err != nil {
		writeError(w, http.StatusInternalServerError, messages.Wrap(err, "getting weekday"))
		return
	}
	writeJSON(w, http.StatusOK, nowResponse{
		DateTime:  dt.String(),
		Date:      dt.Date().String(),
		Weekday:   wd.String(),
		Long:      dt.Date().Format(jalali.StyleLong),
		Gregorian: now.Format(time.RFC3339),
		TimeZone:  s.loc.String(),
	})
}

type convertResponse struct {
	Input     string `json:"input"`
	Persian   string `json:"persian"`
	Gregorian string `json:"gregorian"`
}

// handleConvert converts ?date= (Persian) to Gregorian or ?gregorian= to
// Persian.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if g := q.Get("gregorian"); g != "" {
		t, withTime, err := core.ParseGregorianInput(g)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		dt, err := jalali.FromGregorian(t)
		if err != nil {
			writeError(w, http.StatusBadRequest, messages.Wrap(err, "converting from Gregorian"))
			return
		}
		writeJSON(w, http.StatusOK, convertResponse{Input: g, Persian: core.Render(dt, withTime), Gregorian: core.RenderGregorian(t, withTime)})
		return
	}

	in := q.Get("date")
	if in == "" {
		writeError(w, http.StatusBadRequest, errors.New("one of date or gregorian is required"))
		return
	}
	dt, withTime, err := core.ParseInput(in)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	t, err := dt.ToGregorian()
	if err != nil {
		writeError(w, http.StatusBadRequest, messages.Wrap(err, "converting to Gregorian"))
		return
	}
	writeJSON(w, http.StatusOK, convertResponse{Input: in, Persian: core.Render(dt, withTime), Gregorian: core.RenderGregorian(t, withTime)})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	dt, withTime, err := s.inputOrNow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	info, err := core.Info(dt, withTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

type formatResponse struct {
	Result string `json:"result"`
}

// handleFormat renders ?date= with ?style= (short, long, iso) or
// ?pattern=, defaulting to the configured pattern.
func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	dt, withTime, err := s.inputOrNow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	q := r.URL.Query()
	if style := q.Get("style"); style != "" {
		out, err := core.Styled(dt, withTime, style)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, formatResponse{Result: out})
		return
	}
	pattern := q.Get("pattern")
	if pattern == "" {
		pattern = s.cfg.DefaultPattern
	}
	writeJSON(w, http.StatusOK, formatResponse{Result: dt.Format(pattern)})
}

type cellDTO struct {
	Day       int    `json:"day"`
	Indicator string `json:"indicator,omitempty"`
	Holiday   bool   `json:"holiday,omitempty"`
	Today     bool   `json:"today,omitempty"`
}

type monthResponse struct {
	Year     int           `json:"year"`
	Month    int           `json:"month"`
	Title    string        `json:"title"`
	Weekdays [7]string     `json:"weekdays"`
	Weeks    [][7]cellDTO  `json:"weeks"`
	Events   []model.Event `json:"events"`
}

// monthFromQuery resolves ?year=&month=, defaulting each to today's.
func (s *Server) monthFromQuery(r *http.Request) (calendar.Grid, jalali.Date, error) {
	now, err := s.current()
	if err != nil {
		return calendar.Grid{}, jalali.Date{}, err
	}
	today := now.Date()
	q := r.URL.Query()
	year := parseIntDefault(q.Get("year"), today.Year())
	month := parseIntDefault(q.Get("month"), today.Month())
	g, err := calendar.Month(year, month, today)
	return g, today, err
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	g, _, err := s.monthFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	resp := monthResponse{
		Year:     g.Year,
		Month:    g.Month,
		Title:    g.Title,
		Weekdays: jalali.WeekdayNames(),
		Weeks:    make([][7]cellDTO, len(g.Weeks)),
		Events:   events.InMonth(g.Month),
	}
	for i, week := range g.Weeks {
		for j, c := range week {
			dto := cellDTO{Day: c.Day, Holiday: c.Holiday, Today: c.Today}
			if c.Indicator != 0 {
				dto.Indicator = string(c.Indicator)
			}
			resp.Weeks[i][j] = dto
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type eventsResponse struct {
	Date   string        `json:"date"`
	Events []model.Event `json:"events"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	dt, _, err := s.inputOrNow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	d := dt.Date()
	evs := events.ForDate(d.Year(), d.Month(), d.Day())
	if evs == nil {
		evs = []model.Event{}
	}
	writeJSON(w, http.StatusOK, eventsResponse{Date: d.String(), Events: evs})
}

type agendaResponse struct {
	From        string             `json:"from"`
	Days        int                `json:"days"`
	TimeZone    string             `json:"timezone"`
	Occurrences []model.Occurrence `json:"occurrences"`
}

// handleAgenda returns subscribed feed occurrences.
//
// GET /api/agenda?days=7&backfill=1
//   - days:     number of days to show, starting today (default horizon_days)
//   - backfill: number of past days to include (default 0)
func (s *Server) handleAgenda(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	days := parseIntDefault(q.Get("days"), s.cfg.HorizonDays)
	if days <= 0 || days > 366 {
		days = s.cfg.HorizonDays
	}
	backfill := parseIntDefault(q.Get("backfill"), 0)
	if backfill < 0 || backfill > 366 {
		backfill = 0
	}

	now, err := s.current()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	from, err := now.Date().SubDays(uint64(backfill))
	if err != nil {
		writeError(w, http.StatusBadRequest, messages.Wrap(err, "computing the agenda start"))
		return
	}

	resp := agendaResponse{From: from.String(), Days: days + backfill, TimeZone: s.loc.String(), Occurrences: []model.Occurrence{}}
	if s.agenda != nil {
		occ, err := s.agenda.Occurrences(r.Context(), from, days+backfill)
		if err != nil {
			appLog.Error("api agenda failed", err)
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if occ != nil {
			resp.Occurrences = occ
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type calendarPage struct {
	Grid          calendar.Grid
	WeekdayNames  [7]string
	TodayLong     string
	Weekday       string
	Gregorian     string
	Events        []model.Event
	Agenda        []model.Occurrence
	Width, Height int
}

// handleCalendar renders the month page captured for snapshots. The root
// element carries data-ready="true" once the page is complete.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	g, today, err := s.monthFromQuery(r)
	if err != nil {
		http.Error(w, messages.Describe(err), http.StatusBadRequest)
		return
	}
	wd, err := today.Weekday()
	if err != nil {
		http.Error(w, messages.Describe(messages.Wrap(err, "getting weekday")), http.StatusInternalServerError)
		return
	}
	page := calendarPage{
		Grid:         g,
		WeekdayNames: jalali.WeekdayNames(),
		TodayLong:    today.Format(jalali.StyleLong),
		Weekday:      wd.String(),
		Gregorian:    s.now().In(s.loc).Format("2 January 2006"),
		Events:       events.InMonth(g.Month),
		Width:        s.cfg.Snapshot.Width,
		Height:       s.cfg.Snapshot.Height,
	}
	if s.agenda != nil {
		if occ, err := s.agenda.Occurrences(r.Context(), today, s.cfg.HorizonDays); err == nil {
			page.Agenda = occ
		} else {
			appLog.Error("calendar page: agenda unavailable", err)
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := calendarTmpl.Execute(w, page); err != nil {
		appLog.Error("calendar page render failed", err)
	}
}

// handlePreview serves the last snapshot written by the snapshot job.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, s.cfg.Snapshot.Output)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

// writeError writes err as {"error": "..."} using its user-facing text.
func writeError(w http.ResponseWriter, status int, err error) {
	type errResp struct {
		Error string `json:"error"`
	}
	msg := err.Error()
	var me *messages.Error
	if !errors.As(err, &me) {
		msg = messages.Describe(err)
	}
	writeJSON(w, status, errResp{Error: msg})
}
