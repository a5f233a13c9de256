package stubsrv

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-crm-console/prospects"
	"github.com/jrsteele09/go-crm-console/users"
)

const (
	seedManagerEmail   = "manager@example.com"
	seedTeamLeadEmail  = "teamlead@example.com"
	seedExecutiveEmail = "executive@example.com"

	seedPasswordLength = 12
)

// Seed creates one demo account per role plus a handful of prospects for
// the executive, so the console has something to show on first run. All
// accounts share one generated password, which is returned for display and
// exists nowhere else.
func (s *Server) Seed() (generatedPassword string, err error) {
	generatedPassword, err = generatePassword()
	if err != nil {
		return "", errors.Wrap(err, "[Server.Seed] generate password")
	}

	seeds := []*users.User{
		{Name: "Demo Manager", Email: seedManagerEmail, Role: users.RoleManager},
		{Name: "Demo Team Lead", Email: seedTeamLeadEmail, Role: users.RoleTeamLead},
		{Name: "Demo Executive", Email: seedExecutiveEmail, Role: users.RoleSalesExecutive},
	}

	var executive *users.User
	for _, seed := range seeds {
		created, err := s.users.Create(seed, generatedPassword)
		if err != nil {
			return "", errors.Wrap(err, "[Server.Seed] create user")
		}
		if created.Role == users.RoleSalesExecutive {
			executive = created
		}
	}

	for _, name := range []string{"Acme Corp", "Globex", "Initech"} {
		s.prospects.Create(&prospects.Prospect{
			ClientName:  name + " Contact",
			CompanyName: name,
			AssignedTo:  executive.ID,
		})
	}

	s.log.Info().Msg("demo accounts seeded")
	s.log.Info().Str("manager", seedManagerEmail).
		Str("teamLead", seedTeamLeadEmail).
		Str("executive", seedExecutiveEmail).
		Msg("demo logins")
	s.log.Info().Str("password", generatedPassword).
		Msg("demo password - it will not be displayed again")

	return generatedPassword, nil
}

func generatePassword() (string, error) {
	raw := make([]byte, seedPasswordLength)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(raw), nil
}
