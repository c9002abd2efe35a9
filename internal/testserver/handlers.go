// ABOUTME: Route handlers for the fake API
// ABOUTME: Errors are plain text bodies, matching the real server

package testserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/paumaneja/mythic-companions-cli/internal/client"
)

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(message))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil
}

func clamp(v int) int {
	return max(0, min(100, v))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds client.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	u, ok := s.users[creds.Username]
	s.mu.Unlock()
	if !ok || !u.checkPassword(creds.Password) {
		writeError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}
	writeJSON(w, client.AuthResponse{Token: s.Token(creds.Username), UserID: u.id, Role: Role})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg client.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[reg.Username]; exists {
		writeError(w, "Username is already taken", http.StatusBadRequest)
		return
	}
	hash, err := hashPassword(reg.Password)
	if err != nil {
		writeError(w, "Password could not be stored", http.StatusBadRequest)
		return
	}
	s.nextID++
	s.users[reg.Username] = &user{
		id:           s.nextID,
		passwordHash: hash,
		profile:      client.UserProfile{ID: s.nextID, Username: reg.Username, Email: reg.Email},
	}
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write([]byte("User registered successfully"))
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	s.mu.Lock()
	profile := u.profile
	s.mu.Unlock()
	writeJSON(w, profile)
}

func (s *Server) handleUpdateEmail(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		writeError(w, "Email is required", http.StatusBadRequest)
		return
	}
	u := currentUser(r)
	s.mu.Lock()
	u.profile.Email = body.Email
	profile := u.profile
	s.mu.Unlock()
	writeJSON(w, profile)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("profileImage")
	if err != nil {
		writeError(w, "Please select a file to upload.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	u := currentUser(r)
	s.mu.Lock()
	u.profile.ProfileImagePath = "/uploads/" + header.Filename
	s.uploads = append(s.uploads, header.Filename)
	profile := u.profile
	s.mu.Unlock()
	writeJSON(w, profile)
}

func (s *Server) handleRemovePicture(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	s.mu.Lock()
	u.profile.ProfileImagePath = ""
	profile := u.profile
	s.mu.Unlock()
	writeJSON(w, profile)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var change client.PasswordChange
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	u := currentUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !u.checkPassword(change.CurrentPassword) {
		writeError(w, "Incorrect current password", http.StatusBadRequest)
		return
	}
	hash, err := hashPassword(change.NewPassword)
	if err != nil {
		writeError(w, "Password could not be stored", http.StatusBadRequest)
		return
	}
	u.passwordHash = hash
	_, _ = w.Write([]byte("Password changed successfully"))
}

func (s *Server) handleSpecies(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	species := append([]client.Species(nil), s.species...)
	s.mu.Unlock()
	writeJSON(w, species)
}

// ownedCompanion returns the caller's companion named in the path. The caller
// must hold s.mu.
func (s *Server) ownedCompanion(w http.ResponseWriter, r *http.Request) *client.Companion {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "Invalid companion id", http.StatusBadRequest)
		return nil
	}
	c, ok := s.companions[id]
	if !ok || s.owners[id] != currentUser(r).id {
		writeError(w, "Companion not found", http.StatusNotFound)
		return nil
	}
	return c
}

func (s *Server) handleCompanionsByOwner(w http.ResponseWriter, r *http.Request) {
	owner, ok := pathID(r, "userId")
	if !ok {
		writeError(w, "Invalid user id", http.StatusBadRequest)
		return
	}
	if owner != currentUser(r).id {
		writeError(w, "Access denied", http.StatusForbidden)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []client.Companion{}
	for id, c := range s.companions {
		if s.owners[id] == owner {
			out = append(out, *c)
		}
	}
	writeJSON(w, out)
}

func (s *Server) handleCompanion(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.ownedCompanion(w, r); c != nil {
		writeJSON(w, c)
	}
}

func (s *Server) handleCreateCompanion(w http.ResponseWriter, r *http.Request) {
	var req client.NewCompanion
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, "Name and species are required", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var species *client.Species
	for i := range s.species {
		if s.species[i].ID == req.SpeciesID {
			species = &s.species[i]
		}
	}
	if species == nil {
		writeError(w, "Species not found", http.StatusNotFound)
		return
	}
	s.nextID++
	c := &client.Companion{
		ID: s.nextID, Name: req.Name, SpeciesName: species.Name, Universe: species.Universe,
		Health: 100, Hunger: 50, Energy: 100, Happiness: 50, Hygiene: 100,
		SpeciesAssets: map[string]string{},
	}
	s.companions[c.ID] = c
	s.owners[c.ID] = currentUser(r).id
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(c)
}

func (s *Server) handleDeleteCompanion(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.ownedCompanion(w, r)
	if c == nil {
		return
	}
	delete(s.companions, c.ID)
	delete(s.owners, c.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInteract(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.ownedCompanion(w, r)
	if c == nil {
		return
	}
	switch client.Interaction(r.URL.Query().Get("action")) {
	case client.InteractFeed:
		c.Hunger = clamp(c.Hunger + 25)
	case client.InteractPlay:
		c.Happiness = clamp(c.Happiness + 15)
		c.Energy = clamp(c.Energy - 20)
	case client.InteractSleep:
		c.Energy = 100
	case client.InteractClean:
		c.Hygiene = 100
	case client.InteractTrain:
		c.Skill++
		c.Energy = clamp(c.Energy - 15)
	default:
		writeError(w, "Unknown action", http.StatusBadRequest)
		return
	}
	writeJSON(w, c)
}

func (s *Server) handleEquip(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.ownedCompanion(w, r)
	if c == nil {
		return
	}
	invID, _ := pathID(r, "inventoryItemId")
	if c.EquippedGear != nil && c.EquippedGear.InventoryItemID == invID {
		c.EquippedGear = nil
		writeJSON(w, c)
		return
	}
	for _, inv := range s.inventory[currentUser(r).id] {
		if inv.InventoryItemID == invID {
			if inv.Item.ItemType == client.ItemConsumable {
				writeError(w, "This item cannot be equipped", http.StatusBadRequest)
				return
			}
			gear := inv
			c.EquippedGear = &gear
			writeJSON(w, c)
			return
		}
	}
	writeError(w, "Item not found in inventory", http.StatusNotFound)
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	items := append([]client.InventoryItem{}, s.inventory[currentUser(r).id]...)
	s.mu.Unlock()
	writeJSON(w, items)
}

func (s *Server) handleUseItem(w http.ResponseWriter, r *http.Request) {
	invID, _ := pathID(r, "inventoryItemId")
	var body struct {
		CompanionID int64 `json:"companionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	owner := currentUser(r).id
	c, ok := s.companions[body.CompanionID]
	if !ok || s.owners[body.CompanionID] != owner {
		writeError(w, "Companion not found", http.StatusNotFound)
		return
	}
	items := s.inventory[owner]
	for i := range items {
		if items[i].InventoryItemID != invID {
			continue
		}
		it := items[i].Item
		if it.ItemType != client.ItemConsumable {
			writeError(w, "This item cannot be used", http.StatusBadRequest)
			return
		}
		c.Health = clamp(c.Health + it.HealthBonus)
		c.Hunger = clamp(c.Hunger + it.HungerBonus)
		c.Energy = clamp(c.Energy + it.EnergyBonus)
		c.Happiness = clamp(c.Happiness + it.HappinessBonus)
		items[i].Quantity--
		if items[i].Quantity == 0 {
			items = append(items[:i], items[i+1:]...)
		}
		s.inventory[owner] = items
		writeJSON(w, c)
		return
	}
	writeError(w, "Item not found in inventory", http.StatusNotFound)
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	questions := append([]client.Question{}, s.questions...)
	s.mu.Unlock()
	writeJSON(w, questions)
}

func (s *Server) handleCompleteMinigame(w http.ResponseWriter, r *http.Request) {
	var completion client.GameCompletion
	if err := json.NewDecoder(r.Body).Decode(&completion); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companions[completion.CompanionID]
	if !ok || s.owners[completion.CompanionID] != currentUser(r).id {
		writeError(w, "Companion not found", http.StatusNotFound)
		return
	}
	c.Happiness = clamp(c.Happiness + 10)
	result := s.reward
	updated := *c
	result.UpdatedCompanion = &updated
	writeJSON(w, result)
}
