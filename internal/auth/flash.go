package auth

import "net/http"

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

// flashCategories are the keys templates style differently.
var flashCategories = []string{"error", "warning", "success", "info"}

// AddFlash queues a flash message in the session.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, category, message string) {
	session, err := m.session(r)
	if err != nil {
		return
	}
	session.AddFlash(message, "flash_"+category)
	_ = session.Save(r, w)
}

// Flashes drains and returns all queued flash messages.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	session, err := m.session(r)
	if err != nil {
		return nil
	}

	var flashes []Flash
	for _, category := range flashCategories {
		for _, value := range session.Flashes("flash_" + category) {
			message, ok := value.(string)
			if !ok {
				continue
			}
			flashes = append(flashes, Flash{Category: category, Message: message})
		}
	}
	if len(flashes) > 0 {
		_ = session.Save(r, w)
	}
	return flashes
}
