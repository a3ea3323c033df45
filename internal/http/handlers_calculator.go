package http

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"fintrack/internal/calculator"
	"fintrack/internal/log"
)

const calcCookieName = "fintrack_calc"

// calcSession returns the session id from the request cookie, issuing a new
// one when the cookie is missing or malformed.
func (s *Server) calcSession(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(calcCookieName); err == nil && len(c.Value) == 32 {
		if _, err := hex.DecodeString(c.Value); err == nil {
			return c.Value
		}
	}
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	id := hex.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{
		Name:     calcCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.opts.CalcSessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	return id
}

func (s *Server) handleCalculatorState(w http.ResponseWriter, r *http.Request) {
	id := s.calcSession(w, r)
	st, ok := s.sessions.Get(id)
	if !ok {
		st = calculator.New()
	}
	NewResponse().JSON(st.Snapshot()).Write(w)
}

func (s *Server) handleCalculatorPress(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, r, err)
		return
	}
	key := p.Get("key")

	id := s.calcSession(w, r)
	var pressErr error
	next := s.sessions.Update(id, func(cur calculator.State, found bool) (calculator.State, bool) {
		if !found {
			cur = calculator.New()
		}
		st, err := cur.Press(key)
		if err != nil {
			// A rejected key leaves the session as it was.
			pressErr = err
			return cur, false
		}
		return st, true
	})
	if pressErr != nil {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Rejected calculator key",
			log.FieldCalcSession, id, "key", key)
		writeError(w, r, pressErr)
		return
	}
	s.appMetrics.calcPresses.Add(1)

	NewResponse().
		Trigger(EventCalculatorChanged, nil).
		JSON(next.Snapshot()).
		Write(w)
}

func (s *Server) handleCalculatorClear(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(s.calcSession(w, r))
	st := calculator.New()
	NewResponse().
		Trigger(EventCalculatorChanged, nil).
		JSON(st.Snapshot()).
		Write(w)
}
