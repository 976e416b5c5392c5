package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSON area format. The area list selects it by the .json extension.
// It mirrors the text format section for section, except that #HELPS
// and #LOOT have no JSON counterpart.

type jsonArea struct {
	Name     string      `json:"name"`
	Builders string      `json:"builders,omitempty"`
	Credits  string      `json:"credits,omitempty"`
	MinVnum  VNUM        `json:"min_vnum"`
	MaxVnum  VNUM        `json:"max_vnum"`
	Security int         `json:"security,omitempty"`
	Reset    int         `json:"reset,omitempty"`
	Instance string      `json:"instance,omitempty"`
	Mobiles  []jsonMob   `json:"mobiles,omitempty"`
	Objects  []jsonObj   `json:"objects,omitempty"`
	Rooms    []jsonRoom  `json:"rooms,omitempty"`
	Resets   []jsonReset `json:"resets,omitempty"`
	Progs    []jsonProg  `json:"mobprogs,omitempty"`
}

type jsonMob struct {
	Vnum        VNUM       `json:"vnum"`
	Name        string     `json:"name"`
	ShortDescr  string     `json:"short"`
	LongDescr   string     `json:"long"`
	Description string     `json:"description,omitempty"`
	Race        string     `json:"race"`
	ActFlags    string     `json:"act,omitempty"`
	AffFlags    string     `json:"affected,omitempty"`
	Alignment   int        `json:"alignment,omitempty"`
	Group       int        `json:"group,omitempty"`
	Level       int        `json:"level"`
	Hitroll     int        `json:"hitroll,omitempty"`
	HitDice     string     `json:"hit_dice"`
	ManaDice    string     `json:"mana_dice"`
	DamDice     string     `json:"dam_dice"`
	DamType     string     `json:"dam_type"`
	Armor       int        `json:"armor,omitempty"`
	OffFlags    string     `json:"offense,omitempty"`
	ImmFlags    string     `json:"immune,omitempty"`
	ResFlags    string     `json:"resist,omitempty"`
	VulnFlags   string     `json:"vuln,omitempty"`
	StartPos    string     `json:"start_pos"`
	DefaultPos  string     `json:"default_pos"`
	Sex         string     `json:"sex"`
	Wealth      int        `json:"wealth,omitempty"`
	Size        int        `json:"size,omitempty"`
	Material    string     `json:"material,omitempty"`
	LootTable   string     `json:"loot_table,omitempty"`
	SpecFun     string     `json:"spec_fun,omitempty"`
	Shop        *jsonShop  `json:"shop,omitempty"`
	Progs       []jsonTrig `json:"progs,omitempty"`
}

type jsonShop struct {
	BuyTypes   [5]int `json:"buy_types"`
	ProfitBuy  int    `json:"profit_buy"`
	ProfitSell int    `json:"profit_sell"`
	OpenHour   int    `json:"open_hour"`
	CloseHour  int    `json:"close_hour"`
}

type jsonTrig struct {
	Type   string `json:"type"`
	Vnum   VNUM   `json:"vnum"`
	Phrase string `json:"phrase"`
}

type jsonObj struct {
	Vnum        VNUM        `json:"vnum"`
	Name        string      `json:"name"`
	ShortDescr  string      `json:"short"`
	Description string      `json:"description,omitempty"`
	Material    string      `json:"material,omitempty"`
	ItemType    string      `json:"type"`
	ExtraFlags  string      `json:"extra,omitempty"`
	WearFlags   string      `json:"wear,omitempty"`
	Level       int         `json:"level,omitempty"`
	Condition   int         `json:"condition,omitempty"`
	Weight      int         `json:"weight,omitempty"`
	Cost        int         `json:"cost,omitempty"`
	Values      [5]int      `json:"values"`
	Affects     []jsonAff   `json:"affects,omitempty"`
	Extras      []ExtraDesc `json:"extras,omitempty"`
}

type jsonAff struct {
	Where     int    `json:"where"`
	Location  int    `json:"location"`
	Modifier  int    `json:"modifier"`
	Bitvector string `json:"bits,omitempty"`
}

type jsonRoom struct {
	Vnum        VNUM        `json:"vnum"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Flags       string      `json:"flags,omitempty"`
	Sector      int         `json:"sector"`
	Exits       []jsonExit  `json:"exits,omitempty"`
	Extras      []ExtraDesc `json:"extras,omitempty"`
}

type jsonExit struct {
	Dir         int    `json:"dir"`
	ToVnum      VNUM   `json:"to"`
	Key         VNUM   `json:"key,omitempty"`
	Flags       string `json:"flags,omitempty"`
	Keyword     string `json:"keyword,omitempty"`
	Description string `json:"description,omitempty"`
}

type jsonReset struct {
	Cmd  string `json:"cmd"`
	Args [4]int `json:"args"`
}

type jsonProg struct {
	Vnum VNUM   `json:"vnum"`
	Code string `json:"code"`
}

func parseFlagString(s string) Bits {
	r := newReader([]byte(s))
	if s == "" {
		return 0
	}
	return r.Flag()
}

// LoadJSONArea parses one area file in the JSON format.
func (l *Loader) LoadJSONArea(path, filename string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var ja jsonArea
	if err := json.Unmarshal(raw, &ja); err != nil {
		return fmt.Errorf("parse json area: %w", err)
	}

	area := &AreaProto{
		Name:     ja.Name,
		Filename: filename,
		MinVnum:  ja.MinVnum,
		MaxVnum:  ja.MaxVnum,
		Builders: ja.Builders,
		Credits:  ja.Credits,
		Security: ja.Security,
		Reset:    ja.Reset,
	}
	if ja.Instance == "perplayer" {
		area.Instance = InstancePerPlayer
	}
	l.Reg.Areas = append(l.Reg.Areas, area)

	for _, jp := range ja.Progs {
		code := &ProgCode{Vnum: jp.Vnum, Code: jp.Code}
		if err := l.Reg.AddProg(code); err != nil {
			return err
		}
		area.Progs = append(area.Progs, code)
	}

	for _, jm := range ja.Mobiles {
		hit, err1 := ParseDice(jm.HitDice)
		mana, err2 := ParseDice(jm.ManaDice)
		dam, err3 := ParseDice(jm.DamDice)
		for _, err := range []error{err1, err2, err3} {
			if err != nil {
				return fmt.Errorf("mob %d: %w", jm.Vnum, err)
			}
		}
		m := &MobProto{
			Vnum:        jm.Vnum,
			Area:        area,
			Name:        jm.Name,
			ShortDescr:  jm.ShortDescr,
			LongDescr:   jm.LongDescr,
			Description: jm.Description,
			Race:        jm.Race,
			ActFlags:    parseFlagString(jm.ActFlags) | ActIsNPC,
			AffFlags:    parseFlagString(jm.AffFlags),
			Alignment:   jm.Alignment,
			Group:       jm.Group,
			Level:       jm.Level,
			Hitroll:     jm.Hitroll,
			HitDice:     hit,
			ManaDice:    mana,
			DamDice:     dam,
			DamType:     jm.DamType,
			Armor:       jm.Armor,
			OffFlags:    parseFlagString(jm.OffFlags),
			ImmFlags:    parseFlagString(jm.ImmFlags),
			ResFlags:    parseFlagString(jm.ResFlags),
			VulnFlags:   parseFlagString(jm.VulnFlags),
			StartPos:    PositionLookup(jm.StartPos),
			DefaultPos:  PositionLookup(jm.DefaultPos),
			Sex:         SexLookup(jm.Sex),
			Wealth:      jm.Wealth,
			Size:        jm.Size,
			Material:    jm.Material,
			LootTable:   jm.LootTable,
			SpecFun:     jm.SpecFun,
		}
		if m.StartPos < 0 {
			m.StartPos = PosStanding
		}
		if m.DefaultPos < 0 {
			m.DefaultPos = PosStanding
		}
		if m.Sex < 0 {
			m.Sex = SexNeutral
		}
		if jm.Shop != nil {
			m.Shop = &Shop{
				Keeper:     jm.Vnum,
				BuyTypes:   jm.Shop.BuyTypes,
				ProfitBuy:  jm.Shop.ProfitBuy,
				ProfitSell: jm.Shop.ProfitSell,
				OpenHour:   jm.Shop.OpenHour,
				CloseHour:  jm.Shop.CloseHour,
			}
		}
		for _, jt := range jm.Progs {
			trig := FlagLookup(jt.Type, TrigNames)
			if trig == 0 {
				l.bug("mob %d: unknown trigger %q", jm.Vnum, jt.Type)
				continue
			}
			m.Progs = append(m.Progs, &ProgTrigger{Type: trig, Vnum: jt.Vnum, Phrase: jt.Phrase})
			m.TrigFlags |= trig
		}
		if err := l.Reg.AddMob(m); err != nil {
			return err
		}
		area.Mobs = append(area.Mobs, m)
	}

	for _, jo := range ja.Objects {
		o := &ObjProto{
			Vnum:        jo.Vnum,
			Area:        area,
			Name:        jo.Name,
			ShortDescr:  jo.ShortDescr,
			Description: jo.Description,
			Material:    jo.Material,
			ItemType:    ItemTypeLookup(jo.ItemType),
			ExtraFlags:  parseFlagString(jo.ExtraFlags),
			WearFlags:   parseFlagString(jo.WearFlags),
			Level:       jo.Level,
			Condition:   jo.Condition,
			Weight:      jo.Weight,
			Cost:        jo.Cost,
			Values:      jo.Values,
		}
		if o.ItemType < 0 {
			return fmt.Errorf("object %d: unknown item type %q", jo.Vnum, jo.ItemType)
		}
		for _, ja := range jo.Affects {
			o.Affects = append(o.Affects, &AffectData{
				Where:     ja.Where,
				Location:  ja.Location,
				Modifier:  ja.Modifier,
				Bitvector: parseFlagString(ja.Bitvector),
			})
		}
		for i := range jo.Extras {
			o.Extras = append(o.Extras, &jo.Extras[i])
		}
		if err := l.Reg.AddObj(o); err != nil {
			return err
		}
		area.Objs = append(area.Objs, o)
	}

	for _, jr := range ja.Rooms {
		room := &RoomProto{
			Vnum:        jr.Vnum,
			Area:        area,
			Name:        jr.Name,
			Description: jr.Description,
			Flags:       parseFlagString(jr.Flags),
			Sector:      jr.Sector,
		}
		for _, je := range jr.Exits {
			if je.Dir < 0 || je.Dir >= DirMax {
				return fmt.Errorf("room %d: bad exit direction %d", jr.Vnum, je.Dir)
			}
			room.Exits[je.Dir] = &ExitProto{
				Dir:         je.Dir,
				OrigDir:     je.Dir,
				ToVnum:      je.ToVnum,
				Key:         je.Key,
				Flags:       parseFlagString(je.Flags),
				Keyword:     je.Keyword,
				Description: je.Description,
			}
		}
		for i := range jr.Extras {
			room.Extras = append(room.Extras, &jr.Extras[i])
		}
		if err := l.Reg.AddRoom(room); err != nil {
			return err
		}
		area.Rooms = append(area.Rooms, room)
	}

	var lastRoom *RoomProto
	for _, jr := range ja.Resets {
		if jr.Cmd == "" {
			continue
		}
		reset := &Reset{
			Cmd:  jr.Cmd[0],
			Arg1: jr.Args[0],
			Arg2: jr.Args[1],
			Arg3: jr.Args[2],
			Arg4: jr.Args[3],
		}
		var room *RoomProto
		switch reset.Cmd {
		case 'M', 'O':
			room = l.Reg.Room(VNUM(reset.Arg3))
		case 'D':
			room = l.Reg.Room(VNUM(reset.Arg2))
		case 'R':
			room = l.Reg.Room(VNUM(reset.Arg1))
		case 'G', 'E', 'P':
			room = lastRoom
		default:
			return fmt.Errorf("bad reset command %q", jr.Cmd)
		}
		if room == nil {
			l.bug("json reset %s references unknown room", jr.Cmd)
			continue
		}
		room.Resets = append(room.Resets, reset)
		if reset.Cmd == 'M' || reset.Cmd == 'O' {
			lastRoom = room
		}
	}

	l.resolveProgs(area)
	return nil
}

// SaveJSONArea writes an area in the JSON format, atomically.
func (l *Loader) SaveJSONArea(dir string, area *AreaProto) error {
	ja := jsonArea{
		Name:     area.Name,
		Builders: area.Builders,
		Credits:  area.Credits,
		MinVnum:  area.MinVnum,
		MaxVnum:  area.MaxVnum,
		Security: area.Security,
		Reset:    area.Reset,
	}
	if area.Instance == InstancePerPlayer {
		ja.Instance = "perplayer"
	} else {
		ja.Instance = "singleton"
	}

	for _, m := range area.Mobs {
		jm := jsonMob{
			Vnum:        m.Vnum,
			Name:        m.Name,
			ShortDescr:  m.ShortDescr,
			LongDescr:   m.LongDescr,
			Description: m.Description,
			Race:        m.Race,
			ActFlags:    FormatBits(m.ActFlags),
			AffFlags:    FormatBits(m.AffFlags),
			Alignment:   m.Alignment,
			Group:       m.Group,
			Level:       m.Level,
			Hitroll:     m.Hitroll,
			HitDice:     m.HitDice.String(),
			ManaDice:    m.ManaDice.String(),
			DamDice:     m.DamDice.String(),
			DamType:     m.DamType,
			Armor:       m.Armor,
			OffFlags:    FormatBits(m.OffFlags),
			ImmFlags:    FormatBits(m.ImmFlags),
			ResFlags:    FormatBits(m.ResFlags),
			VulnFlags:   FormatBits(m.VulnFlags),
			StartPos:    PositionNames[m.StartPos],
			DefaultPos:  PositionNames[m.DefaultPos],
			Sex:         SexNames[m.Sex],
			Wealth:      m.Wealth,
			Size:        m.Size,
			Material:    m.Material,
			LootTable:   m.LootTable,
			SpecFun:     m.SpecFun,
		}
		if m.Shop != nil {
			jm.Shop = &jsonShop{
				BuyTypes:   m.Shop.BuyTypes,
				ProfitBuy:  m.Shop.ProfitBuy,
				ProfitSell: m.Shop.ProfitSell,
				OpenHour:   m.Shop.OpenHour,
				CloseHour:  m.Shop.CloseHour,
			}
		}
		for _, t := range m.Progs {
			jm.Progs = append(jm.Progs, jsonTrig{Type: trigName(t.Type), Vnum: t.Vnum, Phrase: t.Phrase})
		}
		ja.Mobiles = append(ja.Mobiles, jm)
	}

	for _, o := range area.Objs {
		jo := jsonObj{
			Vnum:        o.Vnum,
			Name:        o.Name,
			ShortDescr:  o.ShortDescr,
			Description: o.Description,
			Material:    o.Material,
			ItemType:    ItemTypeName(o.ItemType),
			ExtraFlags:  FormatBits(o.ExtraFlags),
			WearFlags:   FormatBits(o.WearFlags),
			Level:       o.Level,
			Condition:   o.Condition,
			Weight:      o.Weight,
			Cost:        o.Cost,
			Values:      o.Values,
		}
		for _, a := range o.Affects {
			jo.Affects = append(jo.Affects, jsonAff{
				Where:     a.Where,
				Location:  a.Location,
				Modifier:  a.Modifier,
				Bitvector: FormatBits(a.Bitvector),
			})
		}
		for _, e := range o.Extras {
			jo.Extras = append(jo.Extras, *e)
		}
		ja.Objects = append(ja.Objects, jo)
	}

	for _, r := range area.Rooms {
		jr := jsonRoom{
			Vnum:        r.Vnum,
			Name:        r.Name,
			Description: r.Description,
			Flags:       FormatBits(r.Flags),
			Sector:      r.Sector,
		}
		for orig := 0; orig < DirMax; orig++ {
			for _, ex := range r.Exits {
				if ex == nil || ex.OrigDir != orig {
					continue
				}
				jr.Exits = append(jr.Exits, jsonExit{
					Dir:         ex.Dir,
					ToVnum:      ex.ToVnum,
					Key:         ex.Key,
					Flags:       FormatBits(ex.Flags),
					Keyword:     ex.Keyword,
					Description: ex.Description,
				})
			}
		}
		for _, e := range r.Extras {
			jr.Extras = append(jr.Extras, *e)
		}
		ja.Rooms = append(ja.Rooms, jr)
		for _, rs := range r.Resets {
			ja.Resets = append(ja.Resets, jsonReset{
				Cmd:  string([]byte{rs.Cmd}),
				Args: [4]int{rs.Arg1, rs.Arg2, rs.Arg3, rs.Arg4},
			})
		}
	}

	for _, p := range area.Progs {
		ja.Progs = append(ja.Progs, jsonProg{Vnum: p.Vnum, Code: p.Code})
	}

	out, err := json.MarshalIndent(&ja, "", "  ")
	if err != nil {
		return err
	}
	return atomicWrite(filepath.Join(dir, area.Filename), append(out, '\n'))
}
