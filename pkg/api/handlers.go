package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/loopcast/loopcast/pkg/config"
	"github.com/loopcast/loopcast/pkg/orchestrator"
)

// ErrorResponse is the error body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// CreateVirtualHostRequest is the request body for creating a virtual host.
type CreateVirtualHostRequest struct {
	Name         string               `json:"name"`
	Distribution string               `json:"distribution,omitempty"`
	HostNames    []string             `json:"hostNames,omitempty"`
	Origins      []OriginRequest      `json:"origins,omitempty"`
	Applications []ApplicationRequest `json:"applications,omitempty"`
}

// OriginRequest describes one origin pass-through of a virtual host.
type OriginRequest struct {
	Location string   `json:"location"`
	Scheme   string   `json:"scheme,omitempty"`
	Urls     []string `json:"urls,omitempty"`
}

// ApplicationRequest describes one application of a virtual host.
type ApplicationRequest struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// VirtualHostResponse is one topology entry in list and get responses.
type VirtualHostResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Distribution string    `json:"distribution,omitempty"`
	HostNames    []string  `json:"hostNames,omitempty"`
	Static       bool      `json:"static"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (s *Server) handleCreateVirtualHost(w http.ResponseWriter, r *http.Request) {
	var req CreateVirtualHostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	node := config.VirtualHostSchema()
	node.ParseFromNode(req.element())

	res, err := s.orch.CreateVirtualHost(r.Context(), node)
	switch res {
	case orchestrator.ResultSucceeded:
		// Look up by the bound name; binding normalizes whitespace away
		// from the requested one.
		name, _ := node.GetString("Name")
		vh, _ := s.orch.Lookup(name)
		s.writeJSON(w, hostResponse(vh), http.StatusOK)
	case orchestrator.ResultAlreadyExists:
		s.writeError(w, "Virtual host already exists", req.Name, http.StatusConflict)
	default:
		s.writeError(w, "Failed to create virtual host", errDetails(err), http.StatusBadRequest)
	}
}

func (s *Server) handleDeleteVirtualHost(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	res, err := s.orch.DeleteVirtualHost(r.Context(), name)
	switch res {
	case orchestrator.ResultSucceeded:
		s.writeJSON(w, map[string]string{"status": "ok", "name": name}, http.StatusOK)
	case orchestrator.ResultNotFound:
		s.writeError(w, "Virtual host not found", name, http.StatusNotFound)
	default:
		s.writeError(w, "Failed to delete virtual host", errDetails(err), http.StatusBadRequest)
	}
}

func (s *Server) handleListVirtualHosts(w http.ResponseWriter, r *http.Request) {
	hosts := s.orch.List()
	out := make([]VirtualHostResponse, 0, len(hosts))
	for _, vh := range hosts {
		out = append(out, hostResponse(vh))
	}
	s.writeJSON(w, out, http.StatusOK)
}

func (s *Server) handleGetVirtualHost(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	vh, ok := s.orch.Lookup(name)
	if !ok {
		s.writeError(w, "Virtual host not found", name, http.StatusNotFound)
		return
	}
	s.writeJSON(w, hostResponse(vh), http.StatusOK)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	tree := s.currentTree()
	if tree == nil {
		s.writeError(w, "No configuration loaded", "", http.StatusNotFound)
		return
	}

	ser := config.Serializer{IncludeDefaults: r.URL.Query().Get("includeDefaults") == "true"}
	switch r.URL.Query().Get("format") {
	case "", "json":
		s.writeJSON(w, ser.ToMap(tree), http.StatusOK)
	case "xml":
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(ser.RenderXML(tree)))
	case "text":
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(ser.Render(tree)))
	default:
		s.writeError(w, "Unknown format", r.URL.Query().Get("format"), http.StatusBadRequest)
	}
}

// element synthesizes the document fragment the schema binder consumes, so
// JSON requests and XML declarations admit hosts through the same path.
func (req CreateVirtualHostRequest) element() *config.Element {
	el := &config.Element{Name: "VirtualHost"}
	el.Children = append(el.Children, &config.Element{Name: "Name", Text: req.Name})
	if req.Distribution != "" {
		el.Children = append(el.Children, &config.Element{Name: "Distribution", Text: req.Distribution})
	}

	if len(req.HostNames) > 0 {
		names := &config.Element{Name: "Names"}
		for _, hn := range req.HostNames {
			names.Children = append(names.Children, &config.Element{Name: "Name", Text: hn})
		}
		el.Children = append(el.Children, &config.Element{
			Name:     "Host",
			Children: []*config.Element{names},
		})
	}

	if len(req.Origins) > 0 {
		origins := &config.Element{Name: "Origins"}
		for _, o := range req.Origins {
			urls := &config.Element{Name: "Urls"}
			for _, u := range o.Urls {
				urls.Children = append(urls.Children, &config.Element{Name: "Url", Text: u})
			}
			origins.Children = append(origins.Children, &config.Element{
				Name: "Origin",
				Children: []*config.Element{
					{Name: "Location", Text: o.Location},
					{Name: "Pass", Children: []*config.Element{
						{Name: "Scheme", Text: o.Scheme},
						urls,
					}},
				},
			})
		}
		el.Children = append(el.Children, origins)
	}

	if len(req.Applications) > 0 {
		apps := &config.Element{Name: "Applications"}
		for _, a := range req.Applications {
			apps.Children = append(apps.Children, &config.Element{
				Name: "Application",
				Children: []*config.Element{
					{Name: "Name", Text: a.Name},
					{Name: "Type", Text: a.Type},
				},
			})
		}
		el.Children = append(el.Children, apps)
	}

	return el
}

func hostResponse(vh *orchestrator.VirtualHost) VirtualHostResponse {
	if vh == nil {
		return VirtualHostResponse{}
	}
	return VirtualHostResponse{
		ID:           vh.ID(),
		Name:         vh.Name(),
		Distribution: vh.Distribution(),
		HostNames:    vh.HostNames(),
		Static:       vh.Static(),
		CreatedAt:    vh.CreatedAt(),
	}
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func (s *Server) writeJSON(w http.ResponseWriter, v any, status int) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, message, details string, status int) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message, Details: details})
}
