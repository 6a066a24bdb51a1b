package status

import (
	"github.com/gofiber/fiber/v2"

	domain "github.com/oshokin/space-status/internal/domain/presence"
)

// spaceAPIVersion is the SpaceAPI schema revision the document claims.
const spaceAPIVersion = "14"

// document is a SpaceAPI status document, the machine-readable public
// description of the space consumed by directory services.
type document struct {
	APICompatibility []string     `json:"api_compatibility"`
	Space            string       `json:"space"`
	Logo             string       `json:"logo,omitempty"`
	URL              string       `json:"url,omitempty"`
	Location         *docLocation `json:"location,omitempty"`
	Contact          *docContact  `json:"contact,omitempty"`
	State            docState     `json:"state"`
}

type docLocation struct {
	Address string  `json:"address,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type docContact struct {
	Email     string `json:"email,omitempty"`
	Mastodon  string `json:"mastodon,omitempty"`
	IssueMail string `json:"issue_mail,omitempty"`
}

type docState struct {
	Open       bool   `json:"open"`
	LastChange int64  `json:"lastchange,omitempty"`
	Message    string `json:"message,omitempty"`
}

// handleSpaceAPI renders the current presence record into the public
// status document.
func (s *Server) handleSpaceAPI(c *fiber.Ctx) error {
	record := s.service.Current(c.UserContext())

	state := docState{
		Open: record.State != domain.Closed,
	}
	if !record.LastChanged.IsZero() {
		state.LastChange = record.LastChanged.Unix()
	}

	if record.State == domain.OpenIntern {
		state.Message = "open for members"
	}

	doc := document{
		APICompatibility: []string{spaceAPIVersion},
		Space:            s.space.Name,
		Logo:             s.space.Logo,
		URL:              s.space.URL,
		State:            state,
	}

	if s.space.Address != "" || s.space.Lat != 0 || s.space.Lon != 0 {
		doc.Location = &docLocation{
			Address: s.space.Address,
			Lat:     s.space.Lat,
			Lon:     s.space.Lon,
		}
	}

	if s.space.Email != "" || s.space.Mastodon != "" || s.space.IssueMail != "" {
		doc.Contact = &docContact{
			Email:     s.space.Email,
			Mastodon:  s.space.Mastodon,
			IssueMail: s.space.IssueMail,
		}
	}

	return c.JSON(doc)
}
