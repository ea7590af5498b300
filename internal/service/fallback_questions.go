package service

import (
	"github.com/yourusername/trivia-rooms/internal/domain/entity"
)

// fallbackPool - фиксированный пул проверенных вручную вопросов.
// Используется, когда внешний генератор недоступен: старт раунда
// не должен останавливаться из-за отказа генерации.
var fallbackPool = []GeneratedQuestion{
	{
		Content: "What is the capital of France?",
		Options: []entity.QuestionOption{
			{ID: "a", Text: "London"},
			{ID: "b", Text: "Paris"},
			{ID: "c", Text: "Berlin"},
			{ID: "d", Text: "Madrid"},
		},
		CorrectAnswer: "b",
		Category:      "Geography",
	},
	{
		Content: "Who painted the Mona Lisa?",
		Options: []entity.QuestionOption{
			{ID: "a", Text: "Vincent van Gogh"},
			{ID: "b", Text: "Pablo Picasso"},
			{ID: "c", Text: "Leonardo da Vinci"},
			{ID: "d", Text: "Michelangelo"},
		},
		CorrectAnswer: "c",
		Category:      "Art",
	},
	{
		Content: "What is the largest planet in our solar system?",
		Options: []entity.QuestionOption{
			{ID: "a", Text: "Saturn"},
			{ID: "b", Text: "Jupiter"},
			{ID: "c", Text: "Neptune"},
			{ID: "d", Text: "Earth"},
		},
		CorrectAnswer: "b",
		Category:      "Science",
	},
	{
		Content: "In which year did the Second World War end?",
		Options: []entity.QuestionOption{
			{ID: "a", Text: "1943"},
			{ID: "b", Text: "1944"},
			{ID: "c", Text: "1945"},
			{ID: "d", Text: "1946"},
		},
		CorrectAnswer: "c",
		Category:      "History",
	},
	{
		Content: "What is the chemical symbol for gold?",
		Options: []entity.QuestionOption{
			{ID: "a", Text: "Go"},
			{ID: "b", Text: "Gd"},
			{ID: "c", Text: "Ag"},
			{ID: "d", Text: "Au"},
		},
		CorrectAnswer: "d",
		Category:      "Science",
	},
	{
		Content: "Which ocean is the largest by surface area?",
		Options: []entity.QuestionOption{
			{ID: "a", Text: "Atlantic"},
			{ID: "b", Text: "Indian"},
			{ID: "c", Text: "Pacific"},
			{ID: "d", Text: "Arctic"},
		},
		CorrectAnswer: "c",
		Category:      "Geography",
	},
}

// fallbackDetails помечает вопрос как взятый из резервного пула
const fallbackDetails = "Fallback question - manually verified"
