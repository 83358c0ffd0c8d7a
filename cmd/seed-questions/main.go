package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/config"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/database"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/logger"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/model"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/repository"
)

// seedFile is the YAML layout for a question bank dump.
type seedFile struct {
	Questions []seedQuestion `yaml:"questions"`
}

type seedQuestion struct {
	QuestionText  string                 `yaml:"question_text"`
	QuestionType  string                 `yaml:"question_type"`
	Options       []string               `yaml:"options"`
	CorrectAnswer string                 `yaml:"correct_answer"`
	Subject       string                 `yaml:"subject"`
	Chapter       string                 `yaml:"chapter"`
	YearLabel     string                 `yaml:"year_label"`
	Explanation   string                 `yaml:"explanation"`
	Diagram       map[string]interface{} `yaml:"diagram"`
	Difficulty    string                 `yaml:"difficulty"`
}

func main() {
	var file string
	flag.StringVar(&file, "file", "seed/questions.yaml", "Path to the question bank YAML file")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	questionRepo := repository.NewQuestionRepository(pool)

	raw, err := os.ReadFile(file)
	if err != nil {
		log.Fatal().Err(err).Str("file", file).Msg("Failed to read seed file")
	}

	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		log.Fatal().Err(err).Msg("Failed to parse seed file")
	}

	fmt.Printf("=== Seeding %d Questions ===\n", len(seed.Questions))

	successCount := 0
	for i, sq := range seed.Questions {
		question := &model.Question{
			QuestionText:  sq.QuestionText,
			QuestionType:  model.QuestionType(sq.QuestionType),
			Options:       sq.Options,
			CorrectAnswer: sq.CorrectAnswer,
			Subject:       model.Subject(sq.Subject),
			Chapter:       sq.Chapter,
			YearLabel:     sq.YearLabel,
			Explanation:   sq.Explanation,
			Difficulty:    sq.Difficulty,
		}
		if sq.Diagram != nil {
			diagram, err := json.Marshal(sq.Diagram)
			if err != nil {
				fmt.Printf("Error encoding diagram for question %d: %v\n", i+1, err)
				continue
			}
			question.Diagram = diagram
		}

		if !model.ValidSubject(question.Subject) || !question.WellFormed() {
			fmt.Printf("Skipping malformed question %d (%s / %s)\n", i+1, sq.Subject, sq.Chapter)
			continue
		}

		if err := questionRepo.Create(ctx, question); err != nil {
			fmt.Printf("Error inserting question %d: %v\n", i+1, err)
		} else {
			successCount++
			if successCount%100 == 0 {
				fmt.Printf("Inserted %d questions...\n", successCount)
			}
		}
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d questions.\n", successCount, len(seed.Questions))
}
