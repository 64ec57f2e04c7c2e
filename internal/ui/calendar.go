package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mise/internal/db"
	"mise/internal/derive"
	"mise/internal/filter"
	"mise/internal/model"
	"mise/internal/util"
	"mise/internal/workflow"

	tea "github.com/charmbracelet/bubbletea"
)

// calendarDay is one row of the week view.
type calendarDay struct {
	Date    string
	Entries []model.CalendarEntry
}

func (d calendarDay) menuNames() string {
	names := make([]string, len(d.Entries))
	for i, e := range d.Entries {
		names[i] = e.Menu.Name
	}
	return strings.Join(names, ", ")
}

// CalendarView shows the menus scheduled in one week, a row per day.
type CalendarView struct {
	*Table[calendarDay]
	week  filter.Week
	all   []model.CalendarEntry
	today string
}

// NewCalendarView creates a calendar positioned on the week containing now.
func NewCalendarView(now time.Time) *CalendarView {
	v := &CalendarView{week: filter.WeekOf(now), today: now.Format(util.ISODate)}
	v.Table = newTable("scheduled", "",
		column[calendarDay]{
			key: "day", label: "day", width: 14,
			value: func(d calendarDay) string { return d.Date },
			cell: func(d calendarDay) string {
				t, err := time.Parse(util.ISODate, d.Date)
				if err != nil {
					return d.Date
				}
				label := t.Format("Mon 02 Jan")
				if d.Date == v.today {
					label += " •"
				}
				return label
			},
		},
		column[calendarDay]{key: "menus", label: "menus", width: 32, value: calendarDay.menuNames},
		column[calendarDay]{
			key: "meal", label: "meal", width: 16,
			value: func(d calendarDay) string {
				var types []string
				for _, e := range d.Entries {
					types = append(types, string(e.Menu.MealType))
				}
				return strings.Join(types, ", ")
			},
		},
		column[calendarDay]{
			key: "time", label: "time", width: 8,
			value: func(d calendarDay) string {
				total := 0
				for _, e := range d.Entries {
					t := derive.AggregateTime(e.Menu)
					total += t.Prep + t.Cook
				}
				if total == 0 {
					return ""
				}
				return fmt.Sprintf("%d min", total)
			},
		},
	)
	v.summary = func(rows []calendarDay) string {
		planned := 0
		for _, d := range rows {
			if len(d.Entries) > 0 {
				planned++
			}
		}
		return fmt.Sprintf("%d/7 days planned", planned)
	}
	return v
}

// Refresh rebuilds the week rows from entries.
func (v *CalendarView) Refresh(entries []model.CalendarEntry) {
	v.all = entries
	inWeek := filter.Apply(entries, func(e model.CalendarEntry) bool {
		return filter.MatchCalendar(e, v.week)
	})
	days := v.week.Days()
	rows := make([]calendarDay, len(days))
	for i, date := range days {
		rows[i].Date = date
		for _, e := range inWeek {
			if e.Date == date {
				rows[i].Entries = append(rows[i].Entries, e)
			}
		}
	}
	v.SetRows(rows)
	v.noun = "days, " + countEntries(rows)
}

func countEntries(rows []calendarDay) string {
	n := 0
	for _, d := range rows {
		n += len(d.Entries)
	}
	if n == 1 {
		return "1 menu"
	}
	return fmt.Sprintf("%d menus", n)
}

// NextWeek moves the view one week forward.
func (v *CalendarView) NextWeek() {
	v.week = v.week.Next()
	v.Refresh(v.all)
}

// PrevWeek moves the view one week back.
func (v *CalendarView) PrevWeek() {
	v.week = v.week.Prev()
	v.Refresh(v.all)
}

// ThisWeek returns to the current week.
func (v *CalendarView) ThisWeek(now time.Time) {
	v.week = filter.WeekOf(now)
	v.today = now.Format(util.ISODate)
	v.Refresh(v.all)
}

// View renders the week title and the table.
func (v *CalendarView) View(width, height int) string {
	days := v.week.Days()
	title := SearchBarStyle.Render(fmt.Sprintf("Week of %s – %s", util.FormatDate(days[0]), util.FormatDate(days[6])))
	return title + "\n" + v.Table.View(width, height-1)
}

func (m Model) scheduleCmd(date string, menu model.Menu) tea.Cmd {
	svc, mir := m.svc, m.data.calendar
	return func() tea.Msg {
		var entry model.CalendarEntry
		err := withTimeout(svc, func(ctx context.Context) error {
			var err error
			entry, err = workflow.ScheduleMenu(ctx, svc, mir, date, menu.ID)
			return err
		})
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return savedMsg(model.ScreenCalendar, "schedule",
			fmt.Sprintf("%s scheduled for %s", menu.Name, util.FormatDate(date)),
			func() error {
				return withTimeout(svc, func(ctx context.Context) error {
					return workflow.Delete(ctx, svc, db.Calendar, mir, entry.ID)
				})
			},
			restoreFunc(svc, db.Calendar, mir, entry),
		)
	}
}

func (m Model) unscheduleCmd(day calendarDay) tea.Cmd {
	svc, mir := m.svc, m.data.calendar
	entries := append([]model.CalendarEntry(nil), day.Entries...)
	return func() tea.Msg {
		var removed []model.CalendarEntry
		err := withTimeout(svc, func(ctx context.Context) error {
			for _, e := range entries {
				if err := workflow.Delete(ctx, svc, db.Calendar, mir, e.ID); err != nil {
					return err
				}
				removed = append(removed, e)
			}
			return nil
		})
		if err != nil && len(removed) == 0 {
			return model.ErrorMsg{Err: err}
		}
		label := fmt.Sprintf("%d menus removed from %s", len(removed), util.FormatDate(day.Date))
		if err != nil {
			label = fmt.Sprintf("%s, then failed: %v", label, err)
		}
		return savedMsg(model.ScreenCalendar, "delete", label,
			func() error {
				return withTimeout(svc, func(ctx context.Context) error {
					for _, e := range removed {
						if err := workflow.Restore(ctx, svc, db.Calendar, mir, e); err != nil {
							return err
						}
					}
					return nil
				})
			},
			func() error {
				return withTimeout(svc, func(ctx context.Context) error {
					for _, e := range removed {
						if err := workflow.Delete(ctx, svc, db.Calendar, mir, e.ID); err != nil {
							return err
						}
					}
					return nil
				})
			},
		)
	}
}

// MenuPickerModel chooses a menu to schedule on a date.
type MenuPickerModel struct {
	*Table[model.Menu]
	date string
}

// NewMenuPickerModel lists menus for scheduling on date.
func NewMenuPickerModel(date string, menus []model.Menu) *MenuPickerModel {
	p := &MenuPickerModel{date: date}
	p.Table = newTable("menus", "    No menus to schedule.\n    Build one on the Menus tab first.",
		column[model.Menu]{key: "name", label: "name", width: 24, value: func(m model.Menu) string { return m.Name }},
		column[model.Menu]{key: "meal", label: "meal", width: 10, value: func(m model.Menu) string { return string(m.MealType) }},
		column[model.Menu]{key: "recipes", label: "recipes", width: 32, value: menuRecipeNames},
	)
	p.SetRows(menus)
	return p
}

// View renders the picker.
func (p *MenuPickerModel) View(width, height int) string {
	title := SearchBarStyle.Render("Schedule a menu for " + util.FormatDateLong(p.date))
	return title + "\n" + p.Table.View(width, height-1)
}

// DayDetailModel shows the menu snapshots scheduled on one day.
type DayDetailModel struct {
	day calendarDay
}

// NewDayDetailModel creates a day detail model.
func NewDayDetailModel(day calendarDay) *DayDetailModel {
	return &DayDetailModel{day: day}
}

// View renders the day detail.
func (d *DayDetailModel) View(width, height int) string {
	sections := []string{LabelStyle.Render(util.FormatDateLong(d.day.Date))}
	if len(d.day.Entries) == 0 {
		sections = append(sections, HelpDescStyle.Render("Nothing planned. Press a to schedule a menu."))
	}
	for _, e := range d.day.Entries {
		sections = append(sections, renderMenuSummary(e.Menu))
	}
	return PanelStyle.Width(width - 4).Height(height - 4).Render(strings.Join(sections, "\n\n"))
}
