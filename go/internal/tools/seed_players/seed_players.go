package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/mkelleher/rinkdraft/go/internal/dbconfig"
	"github.com/mkelleher/rinkdraft/go/internal/models"
	"github.com/mkelleher/rinkdraft/go/internal/player"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load .env file: %v\n", err)
	}

	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect error: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := player.NewRepository(pool)
	inserted, err := repo.SeedPlayers(ctx, catalog())
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("seeded %d players (%d already present)\n", inserted, len(catalog())-inserted)
}

func catalog() []models.DraftablePlayer {
	entries := []struct {
		name     string
		position models.Position
		mug      string
	}{
		// Forwards
		{"Connor McDavid", models.PositionCenter, "8478402"},
		{"Auston Matthews", models.PositionCenter, "8479318"},
		{"Nathan MacKinnon", models.PositionCenter, "8477492"},
		{"Leon Draisaitl", models.PositionCenter, "8477934"},
		{"Sidney Crosby", models.PositionCenter, "8471675"},
		{"David Pastrnak", models.PositionRightWing, "8477956"},
		{"Nikita Kucherov", models.PositionRightWing, "8476453"},
		{"Matthew Tkachuk", models.PositionLeftWing, "8479314"},
		{"Artemi Panarin", models.PositionLeftWing, "8478550"},
		{"Mikko Rantanen", models.PositionRightWing, "8478420"},
		{"Jack Eichel", models.PositionCenter, "8478403"},
		{"Elias Pettersson", models.PositionCenter, "8481539"},
		{"Kirill Kaprizov", models.PositionLeftWing, "8478864"},
		{"Jason Robertson", models.PositionLeftWing, "8480027"},
		{"Mitch Marner", models.PositionRightWing, "8478483"},
		{"Alex Ovechkin", models.PositionLeftWing, "8471214"},
		{"Brad Marchand", models.PositionLeftWing, "8473419"},
		{"Sebastian Aho", models.PositionCenter, "8478427"},
		{"J.T. Miller", models.PositionCenter, "8476468"},
		{"Kyle Connor", models.PositionLeftWing, "8478398"},

		// Defensemen
		{"Cale Makar", models.PositionDefense, "8480069"},
		{"Roman Josi", models.PositionDefense, "8474600"},
		{"Quinn Hughes", models.PositionDefense, "8480800"},
		{"Adam Fox", models.PositionDefense, "8479323"},
		{"Victor Hedman", models.PositionDefense, "8475167"},
		{"Moritz Seider", models.PositionDefense, "8481542"},
		{"Evan Bouchard", models.PositionDefense, "8480803"},
		{"Josh Morrissey", models.PositionDefense, "8477504"},
		{"Dougie Hamilton", models.PositionDefense, "8476462"},
		{"Miro Heiskanen", models.PositionDefense, "8480036"},
		{"Charlie McAvoy", models.PositionDefense, "8479325"},
		{"Devon Toews", models.PositionDefense, "8478438"},
		{"Aaron Ekblad", models.PositionDefense, "8477932"},
		{"Rasmus Dahlin", models.PositionDefense, "8480839"},
		{"Thomas Chabot", models.PositionDefense, "8479975"},

		// Goalies
		{"Connor Hellebuyck", models.PositionGoalie, "8476945"},
		{"Igor Shesterkin", models.PositionGoalie, "8478048"},
		{"Andrei Vasilevskiy", models.PositionGoalie, "8476883"},
		{"Juuse Saros", models.PositionGoalie, "8477424"},
		{"Ilya Sorokin", models.PositionGoalie, "8478009"},
		{"Jake Oettinger", models.PositionGoalie, "8479979"},
		{"Jeremy Swayman", models.PositionGoalie, "8480280"},
		{"Alexandar Georgiev", models.PositionGoalie, "8478027"},
		{"Linus Ullmark", models.PositionGoalie, "8476999"},
		{"Frederik Andersen", models.PositionGoalie, "8475883"},
	}

	players := make([]models.DraftablePlayer, len(entries))
	for i, e := range entries {
		players[i] = models.DraftablePlayer{
			Name:      e.name,
			Position:  e.position,
			AvatarURL: fmt.Sprintf("https://assets.nhle.com/mugs/nhl/latest/%s.png", e.mug),
		}
	}
	return players
}
