package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"mise/internal/db"
	"mise/internal/filter"
	"mise/internal/model"
	"mise/internal/util"
	"mise/internal/workflow"

	tea "github.com/charmbracelet/bubbletea"
)

// DiaryView lists food diary entries, newest first.
type DiaryView struct {
	*Table[model.DiaryEntry]
	query filter.DiaryQuery
	all   []model.DiaryEntry
}

// NewDiaryView creates an empty diary view.
func NewDiaryView() *DiaryView {
	v := &DiaryView{}
	v.Table = newTable("entries", "    The diary is empty.\n    Press  a  to log what you ate today!",
		column[model.DiaryEntry]{
			key: "date", label: "date", width: 16,
			value: func(d model.DiaryEntry) string { return d.Date },
			cell:  func(d model.DiaryEntry) string { return util.FormatDateLong(d.Date) },
		},
		column[model.DiaryEntry]{key: "mood", label: "mood", width: 6, value: func(d model.DiaryEntry) string { return string(d.Mood) }},
		column[model.DiaryEntry]{
			key: "water", label: "water", width: 5,
			value: func(d model.DiaryEntry) string { return fmt.Sprintf("%04d", d.Water) },
			cell:  func(d model.DiaryEntry) string { return strconv.Itoa(d.Water) },
		},
		column[model.DiaryEntry]{
			key: "meals", label: "meals", width: 36,
			value: func(d model.DiaryEntry) string { return strings.Join(nonEmpty(d.Meals.All()), ", ") },
		},
		column[model.DiaryEntry]{key: "notes", label: "notes", width: 20, value: func(d model.DiaryEntry) string { return d.Notes }},
	)
	return v
}

func nonEmpty(items []string) []string {
	var out []string
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// Refresh re-applies the query to entries.
func (v *DiaryView) Refresh(entries []model.DiaryEntry) {
	v.all = entries
	v.SetRows(filter.Apply(entries, func(d model.DiaryEntry) bool {
		return filter.MatchDiary(d, v.query)
	}))
}

func (v *DiaryView) SetSearch(term string) {
	v.query.Search = term
	v.Refresh(v.all)
}

func (v *DiaryView) SearchTerm() string {
	return v.query.Search
}

func (v *DiaryView) CycleCategory() string {
	moods := make([]string, len(model.Moods))
	for i, md := range model.Moods {
		moods[i] = string(md)
	}
	v.query.Mood = filter.Cycle(moods, v.query.Mood)
	v.Refresh(v.all)
	return filterInfo("Mood", v.query.Mood)
}

// ToggleDate limits the list to one date, or lifts that limit.
func (v *DiaryView) ToggleDate(date string) string {
	if v.query.Date != "" {
		v.query.Date = ""
	} else {
		v.query.Date = date
	}
	v.Refresh(v.all)
	return filterInfo("Date", util.FormatDateLong(v.query.Date))
}

// View renders the filter bar and the table.
func (v *DiaryView) View(width, height int) string {
	var parts []string
	if v.query.Mood != "" {
		parts = append(parts, "mood: "+v.query.Mood)
	}
	if v.query.Date != "" {
		parts = append(parts, "date: "+util.FormatDateLong(v.query.Date))
	}
	return withFilterBar(v.query.Search, parts, v.Table.View, width, height)
}

func (m Model) diaryForm(existing *model.DiaryEntry) *FormModel {
	entry := model.NewDiaryEntry(m.svc.Now().Format(util.ISODate))
	title := "New diary entry"
	if existing != nil {
		entry = *existing
		title = "Edit diary entry"
	}
	moods := []string{"(none)"}
	for _, md := range model.Moods {
		moods = append(moods, string(md))
	}

	f := newForm(title, func(f *FormModel) (tea.Cmd, error) {
		date, err := util.ParseDateInput(f.Value("date"))
		if err != nil {
			return nil, err
		}
		water, err := strconv.Atoi(orDefault(f.Value("water"), "0"))
		if err != nil || water < 0 {
			return nil, fmt.Errorf("water must be a whole number of glasses")
		}
		mood := f.Value("mood")
		if mood == moods[0] {
			mood = ""
		}
		next := entry
		next.Date = date
		next.Water = water
		next.Mood = model.Mood(mood)
		next.Notes = f.Value("notes")
		next.Meals = model.Meals{
			Breakfast: strings.Split(f.Value("breakfast"), "\n"),
			Lunch:     strings.Split(f.Value("lunch"), "\n"),
			Dinner:    strings.Split(f.Value("dinner"), "\n"),
			Snacks:    strings.Split(f.Value("snacks"), "\n"),
		}
		if err := next.Validate(); err != nil {
			return nil, err
		}
		return m.saveDiaryCmd(existing, next), nil
	})
	return f.
		text("date", "Date *", "YYYY-MM-DD", entry.Date).
		choice("mood", "Mood (←/→)", moods, string(entry.Mood)).
		text("water", "Water (glasses)", "0", strconv.Itoa(entry.Water)).
		area("breakfast", "Breakfast (one item per line)", "", strings.Join(entry.Meals.Breakfast, "\n")).
		area("lunch", "Lunch", "", strings.Join(entry.Meals.Lunch, "\n")).
		area("dinner", "Dinner", "", strings.Join(entry.Meals.Dinner, "\n")).
		area("snacks", "Snacks", "", strings.Join(entry.Meals.Snacks, "\n")).
		area("notes", "Notes", "How did it go?", entry.Notes)
}

func (m Model) saveDiaryCmd(before *model.DiaryEntry, entry model.DiaryEntry) tea.Cmd {
	svc, mir := m.svc, m.data.diary
	return func() tea.Msg {
		var saved model.DiaryEntry
		err := withTimeout(svc, func(ctx context.Context) error {
			var err error
			saved, err = workflow.SaveDiaryEntry(ctx, svc, mir, entry)
			return err
		})
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		if before == nil {
			return savedMsg(model.ScreenDiary, "insert", "diary entry saved",
				func() error {
					return withTimeout(svc, func(ctx context.Context) error {
						return workflow.Delete(ctx, svc, db.Diary, mir, saved.ID)
					})
				},
				restoreFunc(svc, db.Diary, mir, saved),
			)
		}
		return savedMsg(model.ScreenDiary, "update", "diary entry updated",
			restoreFunc(svc, db.Diary, mir, *before),
			restoreFunc(svc, db.Diary, mir, saved),
		)
	}
}
