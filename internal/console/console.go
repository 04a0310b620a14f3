// Package console implements the interactive text protocol: one command per
// line on the input, plain text replies on the output.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chessnova/internal/board"
	"github.com/hailam/chessnova/internal/engine"
	"github.com/hailam/chessnova/internal/puzzle"
	"github.com/hailam/chessnova/internal/session"
	"github.com/hailam/chessnova/internal/storage"
)

const helpText = `Commands:
  new [white|black]   start a game against the computer
  <move>, move <move> play a move in SAN (Nf3) or UCI (g1f3)
  hint                suggest a move
  undo                take back your last move
  level [name]        show or set the difficulty (easy, medium, hard)
  think [ms]          show or set the computer's thinking time
  board               draw the board
  fen                 print the position as FEN
  eval                static evaluation of the position
  moves [square]      list legal moves, optionally from one square
  pgn                 print the game as PGN
  stats               show statistics, puzzle rating and achievements
  export [file]       write saved data as JSON to a file or the screen
  import <file>       replace saved data with an exported file
  puzzle [id|list]    start the next unsolved puzzle, or the one named
  resign              resign the game
  draw                offer a draw
  help                show this text
  quit                leave
`

// Options configures a console.
type Options struct {
	Engine      *engine.Engine[board.Move]
	Store       *storage.Storage         // nil disables statistics and saved preferences
	Preferences *storage.UserPreferences // nil means storage.DefaultPreferences
	Logger      zerolog.Logger
}

// Console reads commands and drives a game or puzzle session.
type Console struct {
	in    io.Reader
	out   io.Writer
	eng   *engine.Engine[board.Move]
	store *storage.Storage
	prefs *storage.UserPreferences
	log   zerolog.Logger

	game   *session.Session
	puzzle *puzzle.Session
	failed bool // the current puzzle has already been recorded as failed
}

// New creates a console reading from in and writing to out.
func New(in io.Reader, out io.Writer, opts Options) *Console {
	prefs := opts.Preferences
	if prefs == nil {
		prefs = storage.DefaultPreferences()
	}
	return &Console{
		in:    in,
		out:   out,
		eng:   opts.Engine,
		store: opts.Store,
		prefs: prefs,
		log:   opts.Logger,
	}
}

// Run starts a game with the saved preferences and processes commands until
// "quit", the end of the input, or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	c.printf("ChessNova. Type \"help\" for commands.\n")
	c.newGame(ctx, c.prefs.PlayerColor)
	if c.game == nil {
		c.newGame(ctx, "white")
	}

	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !c.Execute(ctx, line) {
			return nil
		}
	}
	return scanner.Err()
}

// Execute runs one command line. It returns false when the console should
// stop.
func (c *Console) Execute(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "quit", "exit":
		c.printf("Goodbye.\n")
		return false
	case "help", "?":
		c.printf("%s", helpText)
	case "new":
		color := c.prefs.PlayerColor
		if len(args) > 0 {
			color = strings.ToLower(args[0])
		}
		c.newGame(ctx, color)
	case "move":
		if len(args) == 0 {
			c.errorf("usage: move <move>")
			return true
		}
		c.handleMove(ctx, args[0])
	case "hint":
		c.handleHint()
	case "undo":
		c.handleUndo()
	case "level":
		c.handleLevel(args)
	case "think":
		c.handleThink(args)
	case "board", "d":
		c.printf("%s", c.current())
	case "fen":
		c.printf("%s\n", c.current().FEN())
	case "eval":
		c.handleEval()
	case "moves":
		c.handleMoves(args)
	case "pgn":
		c.handlePGN()
	case "stats":
		c.handleStats()
	case "export":
		c.handleExport(args)
	case "import":
		c.handleImport(args)
	case "puzzle":
		c.handlePuzzle(args)
	case "resign":
		c.handleResign()
	case "draw":
		c.handleDraw()
	default:
		c.handleMove(ctx, parts[0])
	}
	return true
}

// current returns the board the player is looking at.
func (c *Console) current() *board.Game {
	if c.puzzle != nil {
		return c.puzzle.Game()
	}
	return c.game.Game()
}

func (c *Console) newGame(ctx context.Context, color string) {
	human := board.White
	switch color {
	case "", "white", "w":
	case "black", "b":
		human = board.Black
	default:
		c.errorf("unknown colour %q, want white or black", color)
		return
	}

	g, err := session.New(session.Options{
		Engine:     c.eng,
		Store:      c.store,
		Human:      human,
		VsComputer: true,
		Username:   c.prefs.Username,
		Logger:     c.log,
	})
	if err != nil {
		c.errorf("%v", err)
		return
	}
	c.game, c.puzzle = g, nil
	if name := strings.ToLower(human.String()); c.prefs.PlayerColor != name {
		c.prefs.PlayerColor = name
		c.savePreferences()
	}

	c.printf("New game against the computer (%s). You play %s.\n", c.eng.Profile().Name, human)
	if g.ComputerToMove() {
		info, unlocked, err := g.ComputerMove(ctx)
		if err != nil {
			c.errorf("%v", err)
			return
		}
		c.printf("Computer plays %s\n", info.SAN)
		c.reportEnd(unlocked)
	}
}

func (c *Console) handleMove(ctx context.Context, text string) {
	if c.puzzle != nil {
		c.tryPuzzle(text)
		return
	}

	turn, err := c.game.Play(ctx, text)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrGameOver):
			c.errorf("the game is over, type \"new\" to start another")
		case errors.Is(err, board.ErrIllegalMove):
			c.errorf("illegal move %q", text)
		case errors.Is(err, session.ErrNotYourTurn):
			c.errorf("%v", err)
		default:
			c.errorf("%v (type \"help\" for commands)", err)
		}
		return
	}
	c.printf("You play %s (%s)\n", turn.Move.SAN, turn.Quality)
	if turn.Reply != nil {
		c.printf("Computer plays %s\n", turn.Reply.SAN)
	}
	c.reportEnd(turn.Unlocked)
}

// reportEnd prints the result once the game is over.
func (c *Console) reportEnd(unlocked []string) {
	r, over := c.game.Result()
	if !over {
		if c.game.Game().InCheck() {
			c.printf("Check!\n")
		}
		return
	}
	c.printf("Game over: %s\n", r)
	c.reportAchievements(unlocked)
}

func (c *Console) reportAchievements(unlocked []string) {
	for _, id := range unlocked {
		c.printf("Achievement unlocked: %s\n", id)
	}
}

func (c *Console) handleHint() {
	if c.puzzle != nil {
		c.printf("Hint: %s\n", c.puzzle.Puzzle().Hint)
		return
	}
	info, ok := c.game.Hint()
	if !ok {
		c.errorf("no hint available")
		return
	}
	c.printf("Hint: %s\n", info.SAN)
}

func (c *Console) handleUndo() {
	if c.puzzle != nil {
		c.puzzle.Reset()
		c.printf("Puzzle reset.\n")
		return
	}
	n, err := c.game.Undo()
	if err != nil {
		c.errorf("%v", err)
		return
	}
	c.printf("Took back %d %s.\n", n, plural(n, "ply", "plies"))
}

func (c *Console) handleLevel(args []string) {
	if len(args) == 0 {
		c.printf("Level: %s\n", c.eng.Profile())
		return
	}
	if !c.eng.SetDifficulty(args[0]) {
		c.errorf("unknown level %q, want easy, medium or hard", args[0])
		return
	}
	c.prefs.Difficulty = c.eng.Profile().Name
	c.savePreferences()
	c.printf("Level set to %s\n", c.eng.Profile())
}

func (c *Console) handleThink(args []string) {
	if len(args) == 0 {
		c.printf("Thinking time: %v\n", c.eng.ThinkingTime())
		return
	}
	ms, err := strconv.Atoi(args[0])
	if err != nil || ms < 0 {
		c.errorf("thinking time must be a number of milliseconds")
		return
	}
	c.eng.SetThinkingTime(time.Duration(ms) * time.Millisecond)
	c.prefs.ThinkingTime = c.eng.ThinkingTime()
	c.savePreferences()
	c.printf("Thinking time set to %v\n", c.eng.ThinkingTime())
}

func (c *Console) handleEval() {
	score := engine.Evaluate[board.Move](c.current())
	c.printf("Evaluation: %s (White's view)\n", engine.ScoreToString(score))
}

func (c *Console) handleMoves(args []string) {
	g := c.current()
	moves := g.LegalMoves()
	if len(args) > 0 {
		sq, err := board.ParseSquare(strings.ToLower(args[0]))
		if err != nil {
			c.errorf("%v", err)
			return
		}
		moves = g.LegalMovesFrom(sq)
	}
	if len(moves) == 0 {
		c.printf("No legal moves.\n")
		return
	}
	sans := make([]string, len(moves))
	for i, m := range moves {
		sans[i] = g.Describe(m).SAN
	}
	c.printf("%d %s: %s\n", len(sans), plural(len(sans), "move", "moves"), strings.Join(sans, " "))
}

func (c *Console) handlePGN() {
	if c.puzzle != nil {
		c.errorf("no PGN for puzzles")
		return
	}
	pgn, err := c.game.PGN()
	if err != nil {
		c.errorf("%v", err)
		return
	}
	c.printf("%s\n", strings.TrimSpace(pgn))
}

func (c *Console) handleResign() {
	if c.puzzle != nil {
		c.puzzle = nil
		c.printf("Puzzle abandoned.\n")
		return
	}
	r, unlocked, err := c.game.Resign()
	if err != nil {
		c.errorf("%v", err)
		return
	}
	c.printf("You resign. %s\n", r)
	c.reportAchievements(unlocked)
}

func (c *Console) handleDraw() {
	if c.puzzle != nil {
		c.errorf("no draws in puzzles")
		return
	}
	accepted, unlocked, err := c.game.OfferDraw()
	if err != nil {
		c.errorf("%v", err)
		return
	}
	if !accepted {
		c.printf("The computer declines the draw.\n")
		return
	}
	r, _ := c.game.Result()
	c.printf("Draw agreed. %s\n", r)
	c.reportAchievements(unlocked)
}

func (c *Console) savePreferences() {
	if c.store == nil {
		return
	}
	if err := c.store.SavePreferences(c.prefs); err != nil {
		c.log.Error().Err(err).Msg("save preferences")
	}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) errorf(format string, args ...any) {
	fmt.Fprintf(c.out, "error: "+format+"\n", args...)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
