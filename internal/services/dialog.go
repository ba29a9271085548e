package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/recipehub/recipebot-backend/internal/models"
	"github.com/recipehub/recipebot-backend/internal/storage"
)

// Replier delivers replies back to the user through the transport
type Replier interface {
	SendText(to, body string) error
	SendPhoto(to, handle string) error
}

// DialogEngine drives the multi-step dialogs: it looks up the sender's
// session, validates the input against the current state, advances or
// re-prompts, and commits at terminal states.
type DialogEngine struct {
	store    storage.Store
	sessions *SessionManager
	media    MediaStore
	flows    map[models.FlowKind]*flowSpec
}

// NewDialogEngine creates the engine with its collaborators
func NewDialogEngine(store storage.Store, sessions *SessionManager, media MediaStore) *DialogEngine {
	return &DialogEngine{
		store:    store,
		sessions: sessions,
		media:    media,
		flows:    buildFlows(),
	}
}

const menuText = `Welcome to the Recipe Management System!

🔹 /add_recipe to add a new recipe
🔹 /search_recipes to search by name or ingredient
🔹 /calculate_bmi to calculate BMI and get dietary suggestions
🔹 /my_favorites to see your saved recipes
🔹 /cancel to cancel the current dialog`

const helpText = `Here's what I can do:

/add_recipe walks you through adding a new recipe step by step
/search_recipes finds recipes by name or ingredient
/calculate_bmi calculates your BMI and suggests recipes
/my_favorites lists the recipes you saved
/cancel abandons the dialog you're in
/skip skips the photo step when adding a recipe`

// HandleEvent processes one inbound event. Events of the same sender are
// serialized on the per-session lock; different senders run concurrently.
func (d *DialogEngine) HandleEvent(ev models.Event, r Replier) error {
	unlock := d.sessions.Lock(ev.SessionID)
	defer unlock()

	if ev.Kind == models.EventCommand {
		return d.handleCommand(ev, r)
	}

	sess, exists := d.sessions.Get(ev.SessionID)
	if !exists {
		return r.SendText(ev.SessionID, menuText)
	}
	return d.advance(sess, ev, r)
}

// handleCommand dispatches slash commands. Flow entry commands replace any
// session already in progress, so the newest command always wins.
func (d *DialogEngine) handleCommand(ev models.Event, r Replier) error {
	command := strings.ToLower(ev.Command)

	switch command {
	case "start":
		return r.SendText(ev.SessionID, menuText)

	case "help":
		return r.SendText(ev.SessionID, helpText)

	case "cancel":
		if _, exists := d.sessions.Get(ev.SessionID); !exists {
			return r.SendText(ev.SessionID, "Nothing to cancel.")
		}
		d.sessions.Delete(ev.SessionID)
		return r.SendText(ev.SessionID, "Operation cancelled.")

	case "my_favorites":
		return d.sendFavorites(ev.SessionID, r)

	case "add_recipe", "calculate_bmi", "search_recipes":
		return d.startFlow(ev.SessionID, models.FlowKind(command), r)

	default:
		// Inside a dialog the state decides what to do with the command
		// ("/skip" at the photo step); outside one it's just unknown.
		if sess, exists := d.sessions.Get(ev.SessionID); exists {
			return d.advance(sess, ev, r)
		}
		return r.SendText(ev.SessionID, "Unknown command. Send /start to see what I can do.")
	}
}

// startFlow begins a dialog at its entry state and sends the first prompt
func (d *DialogEngine) startFlow(sessionID string, kind models.FlowKind, r Replier) error {
	flow, ok := d.flows[kind]
	if !ok {
		return fmt.Errorf("unknown flow %q", kind)
	}

	if old, exists := d.sessions.Get(sessionID); exists {
		log.Printf("Replacing active %s session of %s with %s", old.Flow, sessionID, kind)
	}

	sess := models.NewSession(sessionID, kind, flow.Entry)
	d.sessions.Put(sess)

	return r.SendText(sessionID, flow.States[flow.Entry].Prompt)
}

// advance feeds one event into the session's current state
func (d *DialogEngine) advance(sess *models.Session, ev models.Event, r Replier) error {
	flow, ok := d.flows[sess.Flow]
	if !ok {
		// Corrupt session, drop it rather than trap the user
		d.sessions.Delete(sess.ID)
		return r.SendText(sess.ID, menuText)
	}

	state, ok := flow.States[sess.State]
	if !ok {
		d.sessions.Delete(sess.ID)
		return r.SendText(sess.ID, menuText)
	}

	if !state.accepts(ev.Kind) {
		return r.SendText(sess.ID, "Sorry, I didn't catch that.\n\n"+state.Prompt)
	}

	value, err := state.Apply(d, sess, ev)
	if err != nil {
		return d.replyInputError(sess, err, r)
	}

	if state.Field != "" && value != "" {
		sess.Fields[state.Field] = value
	}
	sess.Touch()

	if state.Next == "" {
		return d.finish(flow, sess, r)
	}

	sess.State = state.Next
	d.sessions.Put(sess)
	return r.SendText(sess.ID, flow.States[state.Next].Prompt)
}

// replyInputError maps a rejected input to its reply. Validation and media
// failures both leave the session in place so the user can try again.
func (d *DialogEngine) replyInputError(sess *models.Session, err error, r Replier) error {
	var validation *ValidationError
	if errors.As(err, &validation) {
		return r.SendText(sess.ID, validation.Msg)
	}

	var media *MediaError
	if errors.As(err, &media) {
		log.Printf("❌ Media failure for %s: %v", sess.ID, media)
		return r.SendText(sess.ID, "Couldn't save your attachment. Please send it again.")
	}

	log.Printf("❌ Unexpected input error for %s: %v", sess.ID, err)
	return r.SendText(sess.ID, "Sorry, something went wrong. Please try again.")
}

// finish runs the flow's commit and clears the session. A failed commit is
// reported to the user but never retried: the session is cleared either way.
func (d *DialogEngine) finish(flow *flowSpec, sess *models.Session, r Replier) error {
	defer d.sessions.Delete(sess.ID)

	if err := flow.Finish(d, sess, r); err != nil {
		var store *StoreError
		if errors.As(err, &store) {
			log.Printf("❌ Commit failed for %s %s: %v", sess.Flow, sess.ID, store)
			return d.sendFailureReply(flow.Kind, sess.ID, r)
		}
		return err
	}
	return nil
}

func (d *DialogEngine) sendFailureReply(kind models.FlowKind, sessionID string, r Replier) error {
	switch kind {
	case models.FlowRecipe:
		return r.SendText(sessionID, "Error saving recipe. Please try again.")
	case models.FlowBMI:
		return r.SendText(sessionID, "Error saving your BMI. Please try again.")
	default:
		return r.SendText(sessionID, "Sorry, something went wrong. Please try again.")
	}
}

// sendFavorites lists the recipes the user saved
func (d *DialogEngine) sendFavorites(sessionID string, r Replier) error {
	recipes, err := d.store.GetFavoriteRecipes(sessionID)
	if err != nil {
		log.Printf("❌ Failed to load favorites for %s: %v", sessionID, err)
		return r.SendText(sessionID, "Sorry, something went wrong. Please try again.")
	}

	if len(recipes) == 0 {
		return r.SendText(sessionID, "You have no favorite recipes yet.")
	}

	var b strings.Builder
	b.WriteString("⭐ Your favorite recipes:\n\n")
	for _, recipe := range recipes {
		fmt.Fprintf(&b, "#%d %s\n", recipe.ID, recipe.Title)
	}
	return r.SendText(sessionID, b.String())
}
