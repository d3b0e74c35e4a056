package main

import (
	"context"
	"errors"
	"time"

	"bookcrud/internal/book"
	"bookcrud/internal/config"
	"bookcrud/internal/platform/logger"
	"bookcrud/internal/validation"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.LogLevel, "console")
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Str("dsn", cfg.RedactedDSN()).Msg("failed to connect to database")
	}
	defer pool.Close()

	service := book.NewService(book.NewPostgresRepo(pool, cfg.DBTimeout))
	created, skipped, err := seed(ctx, service, sampleBooks(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	log.Info().Int("created", created).Int("skipped", skipped).Msg("seed finished")
}

// seed creates every input, skipping the ones whose isbn is already stored.
func seed(ctx context.Context, service *book.Service, inputs []book.CreateInput, log zerolog.Logger) (created, skipped int, err error) {
	for _, in := range inputs {
		opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		b, err := service.Create(opCtx, in)
		cancel()

		var verrs validation.Errors
		switch {
		case errors.As(err, &verrs) && verrs.Has("isbn") && len(verrs) == 1:
			log.Debug().Str("isbn", in.ISBN).Msg("already present")
			skipped++
		case err != nil:
			return created, skipped, err
		default:
			log.Debug().Int64("id", b.ID).Str("title", b.Title).Msg("book created")
			created++
		}
	}
	return created, skipped, nil
}

func sampleBooks() []book.CreateInput {
	str := func(s string) *string { return &s }
	return []book.CreateInput{
		{Title: "Dune", Authors: "Frank Herbert", ISBN: "9780441013593", Editorial: str("Ace"), Year: "1965", EditionNumber: "1", Language: str("en")},
		{Title: "The Left Hand of Darkness", Authors: "Ursula K. Le Guin", ISBN: "9780441478125", Editorial: str("Ace"), Year: "1969", Language: str("en")},
		{Title: "Cien años de soledad", Authors: "Gabriel García Márquez", ISBN: "9780307474728", Editorial: str("Vintage Español"), Year: "1967", Language: str("es")},
		{Title: "Neuromancer", Authors: "William Gibson", ISBN: "9780441569595", Editorial: str("Ace"), Year: "1984", Language: str("en")},
		{Title: "The Mythical Man-Month", Authors: "Frederick P. Brooks Jr.", ISBN: "9780201835953", Editorial: str("Addison-Wesley"), Year: "1975", EditionNumber: "2", Language: str("en")},
		{Title: "Structure and Interpretation of Computer Programs", Authors: "Harold Abelson, Gerald Jay Sussman", ISBN: "9780262510875", Editorial: str("MIT Press"), Year: "1985", EditionNumber: "2", Language: str("en")},
		{Title: "Ficciones", Authors: "Jorge Luis Borges", ISBN: "9780802130303", Editorial: str("Grove Press"), Year: "1944", Language: str("es")},
	}
}
