package http

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/fwojciec/horizon"
)

type subscribeRequest struct {
	Email     string `json:"email"`
	Frequency string `json:"frequency"`
}

type subscribeResponse struct {
	Message          string `json:"message"`
	UnsubscribeToken string `json:"unsubscribeToken,omitempty"`
}

// handleSubscribe handles POST /api/newsletter/subscribe. Subscribing an
// address that is already active is not an error.
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		s.Error(w, r, horizon.Errorf(horizon.EINVALID, "invalid JSON body"))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		s.Error(w, r, horizon.Errorf(horizon.EINVALID, "Email is required"))
		return
	}
	freq, err := horizon.ParseFrequency(req.Frequency)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	err = s.Subscribers.Subscribe(r.Context(), &horizon.Subscriber{Email: email, Frequency: freq})
	switch {
	case horizon.ErrorCode(err) == horizon.ECONFLICT:
		writeJSON(w, http.StatusOK, &subscribeResponse{Message: "You are already subscribed to our newsletter"})
	case err != nil:
		s.Error(w, r, err)
	default:
		writeJSON(w, http.StatusOK, &subscribeResponse{
			Message:          "Successfully subscribed to newsletter",
			UnsubscribeToken: horizon.UnsubscribeToken(email),
		})
	}
}

var unsubscribedPage = template.Must(template.New("unsubscribed").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Unsubscribed</title>
</head>
<body style="font-family: Arial, sans-serif; background: #f3f4f6; display: flex; min-height: 100vh; align-items: center; justify-content: center;">
<div style="max-width: 28rem; background: #ffffff; border-radius: 8px; padding: 2rem; text-align: center;">
<h1>Successfully Unsubscribed</h1>
<p>{{.}} will no longer receive the newsletter. We're sorry to see you go!</p>
<a href="/">Return to Homepage</a>
</div>
</body>
</html>
`))

// handleUnsubscribe handles GET /api/newsletter/unsubscribe?email=&token=
// and answers with an HTML page, since it is opened from an email link.
// Repeating a valid request is harmless.
func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	email := strings.ToLower(strings.TrimSpace(q.Get("email")))
	token := q.Get("token")
	if email == "" || token == "" {
		s.Error(w, r, horizon.Errorf(horizon.EINVALID, "Email and token are required"))
		return
	}
	// Tokens are issued for the address as typed at subscription, which
	// the store lowercases.
	if !horizon.VerifyUnsubscribeToken(email, token) && !horizon.VerifyUnsubscribeToken(q.Get("email"), token) {
		s.Error(w, r, horizon.Errorf(horizon.EINVALID, "Invalid token"))
		return
	}

	if err := s.Subscribers.Unsubscribe(r.Context(), email); err != nil && horizon.ErrorCode(err) != horizon.ENOTFOUND {
		s.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = unsubscribedPage.Execute(w, email)
}

type cronResponse struct {
	Sent       int                 `json:"sent"`
	Failed     int                 `json:"failed"`
	Deliveries []*horizon.Delivery `json:"deliveries"`
}

// handleCronNewsletter handles GET|POST /api/cron/newsletter.
func (s *Server) handleCronNewsletter(w http.ResponseWriter, r *http.Request) {
	if !s.authorizeCron(r) {
		s.Error(w, r, horizon.Errorf(horizon.EUNAUTHORIZED, "Unauthorized"))
		return
	}

	deliveries, err := s.Digests.SendDigests(r.Context(), s.now())
	if err != nil {
		s.Error(w, r, err)
		return
	}

	resp := &cronResponse{Deliveries: deliveries}
	if resp.Deliveries == nil {
		resp.Deliveries = []*horizon.Delivery{}
	}
	for _, d := range deliveries {
		if d.Status == horizon.DeliverySent {
			resp.Sent++
		} else {
			resp.Failed++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
