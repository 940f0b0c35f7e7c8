package main

import (
	"github.com/pkg/errors"

	"github.com/tutorhub/backend/core/child"
	"github.com/tutorhub/backend/core/tutor"
	"github.com/tutorhub/backend/core/user"
)

// seedDevData loads a small marketplace into the in-memory store so the DEV
// API is usable right after boot. Logins: <email> / LobiCongo.
func seedDevData(usrSvc user.Service, tutSvc tutor.Service, chdSvc child.Service) error {
	pwd := "LobiCongo"

	type tutorSeed struct {
		name, email, headline, bio string
		subjects                   []string
		rate                       float64
		slots                      map[string][]string
	}
	tutorSeeds := []tutorSeed{
		{
			name:     "Amina Okafor",
			email:    "amina@tutorhub.test",
			headline: "Math made friendly",
			bio:      "Ten years teaching algebra and calculus to middle and high schoolers.",
			subjects: []string{"Math", "Physics"},
			rate:     45,
			slots: map[string][]string{
				"monday":    {"15:00", "16:00", "17:00"},
				"wednesday": {"15:00", "16:00"},
				"saturday":  {"09:00", "10:00", "11:00"},
			},
		},
		{
			name:     "Jules Mwamba",
			email:    "jules@tutorhub.test",
			headline: "Languages and literature",
			bio:      "French and English tutoring with a focus on essay writing.",
			subjects: []string{"French", "English"},
			rate:     38,
			slots: map[string][]string{
				"tuesday":  {"16:00", "17:00"},
				"thursday": {"16:00", "17:00", "18:00"},
				"sunday":   {"10:00"},
			},
		},
	}

	for _, ts := range tutorSeeds {
		usr, err := usrSvc.Create(user.NewUser{
			Name: ts.name, Email: ts.email, Role: user.RoleTutor,
			Password: pwd, PasswordConfirm: pwd,
		})
		if err != nil {
			return errors.Wrapf(err, "seeding tutor user %q", ts.email)
		}
		tut, err := tutSvc.Create(tutor.NewTutor{
			UserID: usr.ID, Headline: ts.headline, Bio: ts.bio,
			Subjects: ts.subjects, HourlyRate: ts.rate,
		})
		if err != nil {
			return errors.Wrapf(err, "seeding tutor profile %q", ts.email)
		}
		for day, slots := range ts.slots {
			if _, err = tutSvc.SetSlots(tut.ID, day, slots); err != nil {
				return errors.Wrapf(err, "seeding %s slots for %q", day, ts.email)
			}
		}
	}

	parent, err := usrSvc.Create(user.NewUser{
		Name: "Nadia Kasongo", Email: "nadia@tutorhub.test", Role: user.RoleParent,
		Password: pwd, PasswordConfirm: pwd,
	})
	if err != nil {
		return errors.Wrap(err, "seeding parent user")
	}

	children := []child.NewChild{
		{Name: "Eli Kasongo", Age: 12, Grade: "7th", Subjects: []string{"Math"}},
		{Name: "Sara Kasongo", Age: 15, Grade: "10th", Subjects: []string{"French", "Physics"}},
	}
	for _, nc := range children {
		if _, err = chdSvc.Create(parent.ID, nc); err != nil {
			return errors.Wrapf(err, "seeding child %q", nc.Name)
		}
	}
	return nil
}
