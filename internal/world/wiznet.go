package world

import "github.com/thornvale/server/internal/data"

// Wiznet fans a message out to subscribed immortal sessions. A receiver
// must have at least one bit of flags set, none of flagSkip, and trust at
// least minTrust. The actor (and the object's carrier) are excluded.
func (w *World) Wiznet(msg string, actor *Mobile, obj *Object, flags, flagSkip data.Bits, minTrust int) {
	for _, d := range w.Descriptors {
		if d.State != ConPlaying || d.Char == nil {
			continue
		}
		ch := d.Char
		if !ch.IsImmortal() {
			continue
		}
		if ch.Pc.Wiznet&data.WizOn == 0 {
			continue
		}
		if flags != 0 && ch.Pc.Wiznet&flags == 0 {
			continue
		}
		if flagSkip != 0 && ch.Pc.Wiznet&flagSkip != 0 {
			continue
		}
		if ch.GetTrust() < minTrust {
			continue
		}
		if ch == actor {
			continue
		}
		if obj != nil && obj.CarriedBy == ch {
			continue
		}
		if ch.Pc.Wiznet&data.WizPrefix != 0 {
			ch.Send("{C--> {x")
		}
		w.Act(msg, ch, obj, actor, ToChar)
	}
}
