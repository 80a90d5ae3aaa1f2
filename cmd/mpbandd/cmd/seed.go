package cmd

import (
	"github.com/apex/log"
	"github.com/orcrobert/mpp/pkg/config"
	"github.com/orcrobert/mpp/pkg/mpband/auth"
	"github.com/orcrobert/mpp/pkg/mpdb"
	"github.com/orcrobert/mpp/pkg/mpdb/mpmodel"
	"github.com/orcrobert/mpp/pkg/mpdb/stor"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run migrations and load the starter catalog",
	Run: func(cmd *cobra.Command, args []string) {
		c := config.MustLoadFromDotenv()
		db := mpdb.MustConnectToDB()

		if err := mpdb.RunMigrations(db); err != nil {
			log.Fatalf("Migrations failed: %s", err)
		}

		stors := stor.NewGormStors(db)

		for _, band := range starterCatalog {
			b := band
			if _, err := stors.BandStor.CreateBand(&b); err != nil {
				log.Errorf("Failed seeding band %q: %s", band.Name, err)
			}
		}

		adminEmail := c.GetKeyWithDefault("MP_ADMIN_EMAIL", "admin@example.com")
		adminPassword := c.MustGetKey("MP_ADMIN_PASSWORD")

		hashed, err := auth.HashPassword(adminPassword)
		if err != nil {
			log.Fatalf("Failed hashing admin password: %s", err)
		}

		_, err = stors.UserStor.CreateUser(&mpmodel.User{
			Email:    adminEmail,
			Password: hashed,
			Role:     mpmodel.RoleAdmin,
		})
		if err != nil {
			log.Errorf("Failed creating admin user: %s", err)
		}

		log.Infof("Seeded %d bands", len(starterCatalog))
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

var starterCatalog = []mpmodel.Band{
	{
		Name:    "Fleshgod Apocalypse",
		Genre:   "Technical Death Metal",
		Rating:  9.8,
		Status:  true,
		Theme:   "Philosophy",
		Country: "Italy",
		Label:   "Nuclear Blast",
		Link:    "https://www.metal-archives.com/bands/Fleshgod_Apocalypse/113185",
	},
	{
		Name:    "Meshuggah",
		Genre:   "Progressive Metal",
		Rating:  7.8,
		Status:  true,
		Theme:   "Mathematics, Human Nature",
		Country: "Sweden",
		Label:   "Nuclear Blast",
		Link:    "https://www.metal-archives.com/bands/Meshuggah/240",
	},
	{
		Name:    "Opeth",
		Genre:   "Progressive Death Metal",
		Rating:  9.5,
		Status:  true,
		Theme:   "Nature, Death, Mysticism",
		Country: "Sweden",
		Label:   "Moderbolaget",
		Link:    "https://www.metal-archives.com/bands/Opeth/755",
	},
	{
		Name:    "Behemoth",
		Genre:   "Blackened Death Metal",
		Rating:  8.7,
		Status:  true,
		Theme:   "Satanism, Anti-Christianity",
		Country: "Poland",
		Label:   "Nuclear Blast",
		Link:    "https://www.metal-archives.com/bands/Behemoth/605",
	},
	{
		Name:    "Carcass",
		Genre:   "Melodic Death Metal",
		Rating:  9.0,
		Status:  true,
		Theme:   "Gore, Medical Themes",
		Country: "United Kingdom",
		Label:   "Nuclear Blast",
		Link:    "https://www.metal-archives.com/bands/Carcass/188",
	},
	{
		Name:    "Gojira",
		Genre:   "Progressive Metal, Death Metal",
		Rating:  7.2,
		Status:  true,
		Theme:   "Environmentalism, Nature",
		Country: "France",
		Label:   "Roadrunner Records",
		Link:    "https://www.metal-archives.com/bands/Gojira/7815",
	},
	{
		Name:    "Amon Amarth",
		Genre:   "Melodic Death Metal",
		Rating:  8.9,
		Status:  true,
		Theme:   "Viking Mythology, Norse Mythology",
		Country: "Sweden",
		Label:   "Metal Blade",
		Link:    "https://www.metal-archives.com/bands/Amon_Amarth/739",
	},
	{
		Name:    "Dark Tranquillity",
		Genre:   "Melodic Death Metal",
		Rating:  9.9,
		Status:  true,
		Theme:   "Melancholy, War",
		Country: "Sweden",
		Label:   "Century Media Records",
		Link:    "https://www.metal-archives.com/bands/Dark_Tranquillity/149",
	},
	{
		Name:    "Death",
		Genre:   "Death Metal",
		Rating:  9.5,
		Status:  false,
		Theme:   "Philosophy, Death, Mental Struggles",
		Country: "United States",
		Label:   "Relapse Records",
		Link:    "https://www.metal-archives.com/bands/Death/70",
	},
	{
		Name:    "Sylosis",
		Genre:   "Thrash Metal, Progressive Metal",
		Rating:  7.6,
		Status:  true,
		Theme:   "Personal Struggles, Inner Turmoil",
		Country: "United Kingdom",
		Label:   "Nuclear Blast",
		Link:    "https://www.metal-archives.com/bands/Sylosis/35492",
	},
}
