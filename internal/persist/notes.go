package persist

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Note is one record of an append-only board file.
type Note struct {
	Sender  string
	Date    string
	To      string
	Subject string
	Text    string
	Stamp   int64
}

// Board is one note board backed by a file.
type Board struct {
	Name  string
	File  string
	Notes []*Note
}

// NoteBoards holds every board: notes, ideas, penalties, news and
// changes. Writes append a serialized record; the file is never
// rewritten in place.
type NoteBoards struct {
	dir    string
	boards []*Board
	log    *zap.Logger
}

// BoardNames lists the standard boards in display order.
var BoardNames = []string{"note", "idea", "penalty", "news", "change"}

func NewNoteBoards(dir string, log *zap.Logger) *NoteBoards {
	nb := &NoteBoards{dir: dir, log: log}
	for _, name := range BoardNames {
		nb.boards = append(nb.boards, &Board{Name: name, File: name + ".txt"})
	}
	return nb
}

// Board finds a board by name.
func (nb *NoteBoards) Board(name string) *Board {
	for _, b := range nb.boards {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// LoadAll reads every board file at boot. Missing files are fine.
func (nb *NoteBoards) LoadAll() error {
	for _, b := range nb.boards {
		raw, err := os.ReadFile(filepath.Join(nb.dir, b.File))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("read board %s: %w", b.Name, err)
		}
		b.Notes = parseNotes(string(raw))
	}
	return nil
}

func parseNotes(body string) []*Note {
	var notes []*Note
	var cur *Note
	for _, chunk := range strings.Split(body, "\n") {
		line := strings.TrimRight(chunk, "\r")
		switch {
		case strings.HasPrefix(line, "Sender "):
			cur = &Note{Sender: strings.TrimSuffix(line[7:], "~")}
		case cur == nil:
			continue
		case strings.HasPrefix(line, "Date "):
			cur.Date = strings.TrimSuffix(line[5:], "~")
		case strings.HasPrefix(line, "Stamp "):
			cur.Stamp, _ = strconv.ParseInt(strings.TrimSpace(line[6:]), 10, 64)
		case strings.HasPrefix(line, "To "):
			cur.To = strings.TrimSuffix(line[3:], "~")
		case strings.HasPrefix(line, "Subject "):
			cur.Subject = strings.TrimSuffix(line[8:], "~")
		case line == "End":
			notes = append(notes, cur)
			cur = nil
		default:
			if strings.HasSuffix(line, "~") {
				cur.Text += strings.TrimSuffix(line, "~")
			} else if line != "Text" {
				cur.Text += line + "\n"
			}
		}
	}
	return notes
}

// Append posts a note: it joins the in-memory board and is appended to
// the board file with a flush per record, so a tailing process never
// sees a partial line.
func (nb *NoteBoards) Append(boardName string, note *Note) error {
	b := nb.Board(boardName)
	if b == nil {
		return fmt.Errorf("no such board %q", boardName)
	}
	if note.Stamp == 0 {
		note.Stamp = time.Now().Unix()
	}
	if note.Date == "" {
		note.Date = time.Unix(note.Stamp, 0).Format("Mon Jan 2 15:04:05 2006")
	}
	b.Notes = append(b.Notes, note)

	if err := os.MkdirAll(nb.dir, 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(nb.dir, b.File),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Sender %s~\n", note.Sender)
	fmt.Fprintf(&sb, "Date %s~\n", note.Date)
	fmt.Fprintf(&sb, "Stamp %d\n", note.Stamp)
	fmt.Fprintf(&sb, "To %s~\n", note.To)
	fmt.Fprintf(&sb, "Subject %s~\n", note.Subject)
	fmt.Fprintf(&sb, "Text\n%s~\nEnd\n", strings.TrimRight(note.Text, "\n"))
	if _, err := f.WriteString(sb.String()); err != nil {
		return err
	}
	return f.Sync()
}

// VisibleTo reports whether a note addresses a reader.
func (n *Note) VisibleTo(name string, immortal bool) bool {
	if strings.EqualFold(n.Sender, name) {
		return true
	}
	for _, to := range strings.Fields(strings.ToLower(n.To)) {
		switch to {
		case "all":
			return true
		case "immortal", "imm", "immortals":
			if immortal {
				return true
			}
		default:
			if strings.EqualFold(to, name) {
				return true
			}
		}
	}
	return false
}
