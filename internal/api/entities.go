package api

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/brandpulse/social-insights/internal/models"
)

// ---- brands ----

func (s *Server) handleListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := s.repo.ListBrands(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	sort.Slice(brands, func(i, j int) bool { return brands[i].Name < brands[j].Name })
	writeJSON(w, http.StatusOK, brands)
}

func (s *Server) handleCreateBrand(w http.ResponseWriter, r *http.Request) {
	var brand models.Brand
	if err := json.NewDecoder(r.Body).Decode(&brand); err != nil {
		writeError(w, http.StatusBadRequest, "invalid brand payload: "+err.Error())
		return
	}
	if brand.Name == "" {
		writeError(w, http.StatusBadRequest, "brand name is required")
		return
	}

	brand.ID = uuid.NewString()
	brand.CreatedAt = s.now().UTC()
	brand.UpdatedAt = brand.CreatedAt

	if err := s.repo.SaveEntity(r.Context(), models.EntityBrand, brand.ID, &brand); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, brand)
}

func (s *Server) handleGetBrand(w http.ResponseWriter, r *http.Request) {
	brand, err := s.repo.GetBrand(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, brand)
}

func (s *Server) handleUpdateBrand(w http.ResponseWriter, r *http.Request) {
	existing, err := s.repo.GetBrand(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}

	updated := *existing
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		writeError(w, http.StatusBadRequest, "invalid brand payload: "+err.Error())
		return
	}
	if updated.Name == "" {
		writeError(w, http.StatusBadRequest, "brand name is required")
		return
	}

	// Identity and creation time are immutable
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now().UTC()

	if err := s.repo.SaveEntity(r.Context(), models.EntityBrand, updated.ID, &updated); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteBrand(w http.ResponseWriter, r *http.Request) {
	// Resolve first so deletes by display name hit the right document
	brand, err := s.repo.GetBrand(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	if err := s.repo.DeleteEntity(r.Context(), models.EntityBrand, brand.ID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- campaigns ----

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.repo.ListCampaigns(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	sort.Slice(campaigns, func(i, j int) bool { return campaigns[i].Name < campaigns[j].Name })
	writeJSON(w, http.StatusOK, campaigns)
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var campaign models.Campaign
	if err := json.NewDecoder(r.Body).Decode(&campaign); err != nil {
		writeError(w, http.StatusBadRequest, "invalid campaign payload: "+err.Error())
		return
	}
	if campaign.Name == "" {
		writeError(w, http.StatusBadRequest, "campaign name is required")
		return
	}
	if campaign.StartDate != nil && campaign.EndDate != nil && campaign.EndDate.Before(*campaign.StartDate) {
		writeError(w, http.StatusBadRequest, "campaign end_date must not precede start_date")
		return
	}

	campaign.ID = uuid.NewString()
	campaign.CreatedAt = s.now().UTC()
	campaign.UpdatedAt = campaign.CreatedAt

	if err := s.repo.SaveEntity(r.Context(), models.EntityCampaign, campaign.ID, &campaign); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, campaign)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := s.repo.GetCampaign(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (s *Server) handleUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	existing, err := s.repo.GetCampaign(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}

	updated := *existing
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		writeError(w, http.StatusBadRequest, "invalid campaign payload: "+err.Error())
		return
	}
	if updated.Name == "" {
		writeError(w, http.StatusBadRequest, "campaign name is required")
		return
	}
	if updated.StartDate != nil && updated.EndDate != nil && updated.EndDate.Before(*updated.StartDate) {
		writeError(w, http.StatusBadRequest, "campaign end_date must not precede start_date")
		return
	}

	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now().UTC()

	if err := s.repo.SaveEntity(r.Context(), models.EntityCampaign, updated.ID, &updated); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	if _, err := s.repo.GetCampaign(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	if err := s.repo.DeleteEntity(r.Context(), models.EntityCampaign, mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- contents ----

func (s *Server) handleListContents(w http.ResponseWriter, r *http.Request) {
	contents, err := s.repo.ListContents(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	sort.Slice(contents, func(i, j int) bool { return contents[i].Title < contents[j].Title })
	writeJSON(w, http.StatusOK, contents)
}

func (s *Server) handleCreateContent(w http.ResponseWriter, r *http.Request) {
	var content models.Content
	if err := json.NewDecoder(r.Body).Decode(&content); err != nil {
		writeError(w, http.StatusBadRequest, "invalid content payload: "+err.Error())
		return
	}
	if content.Platform != "" {
		platform, ok := models.ParsePlatform(string(content.Platform))
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown platform")
			return
		}
		content.Platform = platform
	}

	content.ID = uuid.NewString()
	content.CreatedAt = s.now().UTC()
	content.UpdatedAt = content.CreatedAt

	if err := s.repo.SaveEntity(r.Context(), models.EntityContent, content.ID, &content); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, content)
}

func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	content, err := s.repo.GetContent(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, content)
}

func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	existing, err := s.repo.GetContent(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}

	updated := *existing
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		writeError(w, http.StatusBadRequest, "invalid content payload: "+err.Error())
		return
	}
	if updated.Platform != "" {
		platform, ok := models.ParsePlatform(string(updated.Platform))
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown platform")
			return
		}
		updated.Platform = platform
	}

	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now().UTC()

	if err := s.repo.SaveEntity(r.Context(), models.EntityContent, updated.ID, &updated); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteContent(w http.ResponseWriter, r *http.Request) {
	if _, err := s.repo.GetContent(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	if err := s.repo.DeleteEntity(r.Context(), models.EntityContent, mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
