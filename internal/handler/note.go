package handler

import (
	"fmt"

	"github.com/thornvale/server/internal/persist"
	"github.com/thornvale/server/internal/world"
)

func doNote(d *Deps, ch *world.Mobile, argument string) {
	noteCommand(d, ch, "note", argument)
}

func doIdea(d *Deps, ch *world.Mobile, argument string) {
	noteCommand(d, ch, "idea", argument)
}

func doPenalty(d *Deps, ch *world.Mobile, argument string) {
	noteCommand(d, ch, "penalty", argument)
}

// noteCommand drives one board: read (default), list, read <n>,
// catchup, and a one-line post.
func noteCommand(d *Deps, ch *world.Mobile, boardName, argument string) {
	if ch.IsNPC() {
		return
	}
	board := d.Notes.Board(boardName)
	if board == nil {
		d.World.Bug("note: board %s missing", boardName)
		return
	}
	arg, rest := world.OneArgument(argument)
	switch {
	case arg == "" || arg == "read":
		num := -1
		if n, _ := world.OneArgument(rest); world.IsNumber(n) {
			num = atoiH(n)
		}
		readNotes(d, ch, board, num)
	case arg == "list":
		listNotes(d, ch, board)
	case arg == "catchup":
		last := int64(0)
		for _, note := range board.Notes {
			if note.Stamp > last {
				last = note.Stamp
			}
		}
		ch.Pc.LastNote[board.Name] = last
		ch.Send("All mesages skipped.\n\r")
	case arg == "post" || arg == "write":
		postNote(d, ch, board, rest)
	default:
		ch.Send("Syntax: " + boardName + " [read <n>|list|post <to> <subject> <text>|catchup]\n\r")
	}
}

func readNotes(d *Deps, ch *world.Mobile, board *persist.Board, num int) {
	last := ch.Pc.LastNote[board.Name]
	for i, note := range board.Notes {
		if !note.VisibleTo(ch.Name, ch.IsImmortal()) {
			continue
		}
		if num >= 0 {
			if i+1 != num {
				continue
			}
		} else if note.Stamp <= last {
			continue
		}
		ch.Send(fmt.Sprintf("[%3d] %s: %s\n\r%s\n\rTo: %s\n\r\n\r%s\n\r",
			i+1, note.Sender, note.Subject, note.Date, note.To, note.Text))
		if note.Stamp > last {
			ch.Pc.LastNote[board.Name] = note.Stamp
		}
		return
	}
	if num >= 0 {
		ch.Send("There is no such note.\n\r")
	} else {
		ch.Send("You have no unread notes.\n\r")
	}
}

func listNotes(d *Deps, ch *world.Mobile, board *persist.Board) {
	last := ch.Pc.LastNote[board.Name]
	shown := 0
	for i, note := range board.Notes {
		if !note.VisibleTo(ch.Name, ch.IsImmortal()) {
			continue
		}
		marker := " "
		if note.Stamp > last {
			marker = "N"
		}
		ch.Send(fmt.Sprintf("[%3d%s] %s: %s\n\r", i+1, marker, note.Sender, note.Subject))
		shown++
	}
	if shown == 0 {
		ch.Send("There are no notes for you on this board.\n\r")
	}
}

func postNote(d *Deps, ch *world.Mobile, board *persist.Board, argument string) {
	to, rest := world.OneArgument(argument)
	subject, text := world.OneArgument(rest)
	if to == "" || subject == "" || text == "" {
		ch.Send("Syntax: post <to> <subject> <text...>\n\r")
		return
	}
	note := &persist.Note{
		Sender:  ch.Name,
		To:      to,
		Subject: subject,
		Text:    text,
	}
	if err := d.Notes.Append(board.Name, note); err != nil {
		d.World.Bug("note post: %v", err)
		ch.Send("Your note could not be posted.\n\r")
		return
	}
	ch.Send("Your note has been posted.\n\r")
}
