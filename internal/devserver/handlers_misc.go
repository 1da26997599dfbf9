package devserver

import (
	"net/http"

	"github.com/dmitrijs2005/gophjournal/internal/client/models"
)

var prompts = []string{
	"What surprised you today?",
	"Describe a conversation you keep thinking about.",
	"What is one thing you would like to do differently tomorrow?",
	"Write about a place that made you feel calm.",
	"What are you grateful for right now?",
	"Which small habit is serving you well lately?",
	"What did you learn this week that you want to remember?",
}

// promptFor picks the same prompt for everyone on a given day.
func promptFor(yearDay int) string {
	return prompts[yearDay%len(prompts)]
}

func (s *Server) dailyPrompt(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	writeJSON(w, http.StatusOK, models.DailyPrompt{
		Prompt: promptFor(now.YearDay()),
		Date:   now.Format(models.DateLayout),
	})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	owner := s.owner(r)
	u, err := s.store.UserByID(owner)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.User{
		Username:         u.Username,
		Email:            u.Email,
		Streak:           s.store.Streak(owner),
		TwoFactorEnabled: u.TwoFactor,
	})
}
