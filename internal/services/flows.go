package services

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/recipehub/recipebot-backend/internal/models"
)

// Field keys under which validated values accumulate in a session.
const (
	fieldTitle        = "title"
	fieldIngredients  = "ingredients"
	fieldCookingTime  = "cooking_time"
	fieldSkillLevel   = "skill_level"
	fieldCalories     = "calories"
	fieldInstructions = "instructions"
	fieldImage        = "image"
	fieldHeight       = "height"
	fieldWeight       = "weight"
	fieldQuery        = "query"
)

const searchSeparator = "-------------------"

// stateSpec declares a single dialog step: the prompt sent on entry, which
// input kinds it accepts, the validator producing the stored value, and the
// state that follows. Next is empty at the terminal state.
type stateSpec struct {
	Prompt  string
	Accepts []models.EventKind
	Field   string
	Apply   func(d *DialogEngine, sess *models.Session, ev models.Event) (string, error)
	Next    models.StateID
}

func (s stateSpec) accepts(kind models.EventKind) bool {
	for _, k := range s.Accepts {
		if k == kind {
			return true
		}
	}
	return false
}

// flowSpec is a named dialog: an entry state, the state table, and the
// commit invoked after the terminal state's input has been applied.
type flowSpec struct {
	Kind   models.FlowKind
	Entry  models.StateID
	States map[models.StateID]stateSpec
	Finish func(d *DialogEngine, sess *models.Session, r Replier) error
}

// applyText accepts any non-empty text verbatim
func applyText(prompt string) func(*DialogEngine, *models.Session, models.Event) (string, error) {
	return func(d *DialogEngine, sess *models.Session, ev models.Event) (string, error) {
		text := strings.TrimSpace(ev.Text)
		if text == "" {
			return "", &ValidationError{Msg: "I need a text reply here.\n\n" + prompt}
		}
		return text, nil
	}
}

// applyNumber accepts a positive finite decimal number, kept as typed
func applyNumber(d *DialogEngine, sess *models.Session, ev models.Event) (string, error) {
	text := strings.TrimSpace(ev.Text)
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || value <= 0 || math.IsInf(value, 0) || math.IsNaN(value) {
		return "", &ValidationError{Msg: "Please enter a valid number."}
	}
	return text, nil
}

// applyInstructions takes cooking instructions as text or a voice note
func applyInstructions(d *DialogEngine, sess *models.Session, ev models.Event) (string, error) {
	if ev.Kind == models.EventVoice {
		handle, err := d.media.Save(MediaVoice, ev.Attachment)
		if err != nil {
			return "", err
		}
		return handle, nil
	}

	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return "", &ValidationError{Msg: "I need a text reply here.\n\nEnter cooking instructions (or send a voice message):"}
	}
	return text, nil
}

// applyPhoto takes the dish photo, or /skip to leave the recipe without one
func applyPhoto(d *DialogEngine, sess *models.Session, ev models.Event) (string, error) {
	switch ev.Kind {
	case models.EventCommand:
		if ev.Command == "skip" {
			return "", nil
		}
		return "", &ValidationError{Msg: "Send a photo of the dish (or /skip to skip):"}
	case models.EventPhoto:
		handle, err := d.media.Save(MediaPhoto, ev.Attachment)
		if err != nil {
			return "", err
		}
		return handle, nil
	default:
		return "", &ValidationError{Msg: "Send a photo of the dish (or /skip to skip):"}
	}
}

// recipeFinish persists the accumulated recipe at the end of the flow
func recipeFinish(d *DialogEngine, sess *models.Session, r Replier) error {
	draft := &models.RecipeDraft{
		Title:        sess.Fields[fieldTitle],
		Ingredients:  sess.Fields[fieldIngredients],
		CookingTime:  sess.Fields[fieldCookingTime],
		SkillLevel:   sess.Fields[fieldSkillLevel],
		Calories:     sess.Fields[fieldCalories],
		Instructions: sess.Fields[fieldInstructions],
		ImagePath:    sess.Fields[fieldImage],
	}

	recipe, err := d.store.CreateRecipe(draft)
	if err != nil {
		return &StoreError{Op: "create recipe", Err: err}
	}

	log.Printf("Recipe %d (%q) created by %s", recipe.ID, recipe.Title, sess.ID)
	return r.SendText(sess.ID, "Recipe added successfully! 🎉")
}

// bmiFinish computes BMI from the collected height and weight, stores it on
// the user record and replies with the value and a dietary suggestion
func bmiFinish(d *DialogEngine, sess *models.Session, r Replier) error {
	// Both fields passed applyNumber, so they parse
	height, _ := strconv.ParseFloat(sess.Fields[fieldHeight], 64)
	weight, _ := strconv.ParseFloat(sess.Fields[fieldWeight], 64)

	bmi := models.ComputeBMI(height, weight)

	if _, err := d.store.UpsertUserBMI(sess.ID, bmi); err != nil {
		return &StoreError{Op: "upsert user BMI", Err: err}
	}

	message := fmt.Sprintf("Your BMI is: %.1f\n\n%s", bmi, models.BMISuggestion(bmi))
	return r.SendText(sess.ID, message)
}

// searchFinish runs the catalog query and sends one result group per match:
// the summary card, the dish photo when available, then a separator
func searchFinish(d *DialogEngine, sess *models.Session, r Replier) error {
	query := sess.Fields[fieldQuery]

	recipes, err := d.store.SearchRecipes(query)
	if err != nil {
		return &StoreError{Op: "search recipes", Err: err}
	}

	if len(recipes) == 0 {
		return r.SendText(sess.ID, "No recipes found matching your search.")
	}

	for _, recipe := range recipes {
		if err := r.SendText(sess.ID, recipe.Summary()); err != nil {
			return err
		}

		if recipe.HasImage() {
			if err := d.media.Resolve(recipe.ImagePath); err != nil {
				log.Printf("Photo %s unavailable: %v", recipe.ImagePath, err)
				if err := r.SendText(sess.ID, "(Photo unavailable)"); err != nil {
					return err
				}
			} else if err := r.SendPhoto(sess.ID, recipe.ImagePath); err != nil {
				return err
			}
		}

		if err := r.SendText(sess.ID, searchSeparator); err != nil {
			return err
		}
	}
	return nil
}

// buildFlows assembles the dialog tables. Adding or removing a step is a
// data change here, not a control-flow change in the engine.
func buildFlows() map[models.FlowKind]*flowSpec {
	text := []models.EventKind{models.EventText}

	recipe := &flowSpec{
		Kind:  models.FlowRecipe,
		Entry: models.StateTitle,
		States: map[models.StateID]stateSpec{
			models.StateTitle: {
				Prompt:  "Please enter the recipe title:",
				Accepts: text,
				Field:   fieldTitle,
				Apply:   applyText("Please enter the recipe title:"),
				Next:    models.StateIngredients,
			},
			models.StateIngredients: {
				Prompt:  "Please enter the ingredients (comma-separated):",
				Accepts: text,
				Field:   fieldIngredients,
				Apply:   applyText("Please enter the ingredients (comma-separated):"),
				Next:    models.StateCookingTime,
			},
			models.StateCookingTime: {
				Prompt:  "Enter cooking time (in minutes):",
				Accepts: text,
				Field:   fieldCookingTime,
				Apply:   applyText("Enter cooking time (in minutes):"),
				Next:    models.StateSkillLevel,
			},
			models.StateSkillLevel: {
				Prompt:  "Select skill level (Beginner, Intermediate or Advanced):",
				Accepts: text,
				Field:   fieldSkillLevel,
				Apply:   applyText("Select skill level (Beginner, Intermediate or Advanced):"),
				Next:    models.StateCalories,
			},
			models.StateCalories: {
				Prompt:  "Enter calories (approximate number):",
				Accepts: text,
				Field:   fieldCalories,
				Apply:   applyText("Enter calories (approximate number):"),
				Next:    models.StateInstructions,
			},
			models.StateInstructions: {
				Prompt:  "Enter cooking instructions (or send a voice message):",
				Accepts: []models.EventKind{models.EventText, models.EventVoice},
				Field:   fieldInstructions,
				Apply:   applyInstructions,
				Next:    models.StatePhoto,
			},
			models.StatePhoto: {
				Prompt:  "Send a photo of the dish (or /skip to skip):",
				Accepts: []models.EventKind{models.EventPhoto, models.EventCommand},
				Field:   fieldImage,
				Apply:   applyPhoto,
				// terminal
			},
		},
		Finish: recipeFinish,
	}

	bmi := &flowSpec{
		Kind:  models.FlowBMI,
		Entry: models.StateHeight,
		States: map[models.StateID]stateSpec{
			models.StateHeight: {
				Prompt:  "Please enter your height in cm:",
				Accepts: text,
				Field:   fieldHeight,
				Apply:   applyNumber,
				Next:    models.StateWeight,
			},
			models.StateWeight: {
				Prompt:  "Please enter your weight in kg:",
				Accepts: text,
				Field:   fieldWeight,
				Apply:   applyNumber,
				// terminal
			},
		},
		Finish: bmiFinish,
	}

	search := &flowSpec{
		Kind:  models.FlowSearch,
		Entry: models.StateQuery,
		States: map[models.StateID]stateSpec{
			models.StateQuery: {
				Prompt:  "Enter a search term (recipe name or ingredient):",
				Accepts: text,
				Field:   fieldQuery,
				Apply:   applyText("Enter a search term (recipe name or ingredient):"),
				// terminal
			},
		},
		Finish: searchFinish,
	}

	return map[models.FlowKind]*flowSpec{
		models.FlowRecipe: recipe,
		models.FlowBMI:    bmi,
		models.FlowSearch: search,
	}
}
