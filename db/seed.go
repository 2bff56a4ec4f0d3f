package db

import (
	"log"

	"github.com/iatek/deptadmin/domain"
	"github.com/iatek/deptadmin/util"
	"golang.org/x/crypto/bcrypt"
)

// Seed makes a fresh database usable: one admin account from the config and
// a handful of sample submissions so the console has something to show.
// Both steps are skipped when data already exists.
func (db *DB) Seed(conf *util.AppConfig) error {
	err, admins := db.CountAdmins()
	if err != nil {
		return err
	}

	if admins == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(conf.Conf.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		if err, _ := db.CreateAdmin("admin", conf.Conf.AdminEmail, string(hash)); err != nil {
			return err
		}
		log.Printf("Seeded admin account %s", conf.Conf.AdminEmail)
	}

	err, subs := db.CountSubmissions()
	if err != nil {
		return err
	}

	if subs == 0 {
		for _, sub := range sampleSubmissions() {
			sub := sub
			if err := db.CreateSubmission(&sub); err != nil {
				return err
			}
		}
		log.Printf("Seeded %d sample submissions", len(sampleSubmissions()))
	}

	return nil
}

func sampleSubmissions() []domain.Submission {
	return []domain.Submission{
		{
			Nom:     "Dupont",
			Prenom:  "Marie",
			Email:   "marie.dupont@example.com",
			Phone:   "0601020304",
			Service: domain.ServiceConsulting,
			Message: "Bonjour, je souhaiterais un devis pour une mission de conseil.",
		},
		{
			Nom:     "Martin",
			Prenom:  "Paul",
			Email:   "paul.martin@example.com",
			Service: domain.ServiceDeveloppement,
			Message: "Nous cherchons un partenaire pour refondre notre application interne.",
		},
		{
			Nom:     "Bernard",
			Email:   "bernard@example.com",
			Phone:   "0788990011",
			Service: domain.ServiceSupport,
			Message: "Notre instance est inaccessible depuis ce matin, merci de nous recontacter.",
		},
	}
}
