package tui

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"optitask/internal/db"
	"optitask/internal/engine"
	"optitask/internal/model"
	"optitask/internal/session"
)

const (
	viewHeader     = "header"
	viewFooter     = "footer"
	viewTeam       = "team"
	viewTodo       = "todo"
	viewInProgress = "inprogress"
	viewDone       = "done"
	viewForm       = "form"
	viewAssign     = "assign"
	viewSearch     = "search"
	viewConfirm    = "confirm"
	viewReports    = "reports"
	viewHelp       = "help"
)

type UI struct {
	store *db.Store
	gui   *gocui.Gui

	user        *model.User
	collections engine.Collections

	todo       []model.Task
	inprogress []model.Task
	done       []model.Task

	focus              string
	selectedTeam       int
	selectedTodo       int
	selectedInProgress int
	selectedDone       int

	form          *formState
	formEditor    *formEditor
	assign        *assignState
	query         string
	searchActive  bool
	leaveActive   bool
	reportsActive bool
	helpActive    bool
	status        string
}

type assignState struct {
	taskID     int64
	taskLabel  string
	taskHours  int64
	candidates []model.Employee
	index      int
}

type formEditor struct {
	ui *UI
}

func Run(store *db.Store) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := &UI{
		store: store,
		gui:   gui,
		focus: viewTodo,
		form:  buildLoginForm(),
	}
	ui.formEditor = &formEditor{ui: ui}

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}
	if err := ui.refresh(); err != nil {
		return err
	}

	if err := gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}

	return nil
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	if err := gui.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, u.quit); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'q', gocui.ModNone, u.quit); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'r', gocui.ModNone, u.reload); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'a', gocui.ModNone, u.openTaskForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'm', gocui.ModNone, u.openMemberForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 's', gocui.ModNone, u.openAssign); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'd', gocui.ModNone, u.deleteSelected); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '/', gocui.ModNone, u.startSearch); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'g', gocui.ModNone, u.clearSearch); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'X', gocui.ModNone, u.openLeave); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'R', gocui.ModNone, u.toggleReports); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'L', gocui.ModNone, u.logout); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '?', gocui.ModNone, u.toggleHelp); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", gocui.KeyTab, gocui.ModNone, u.switchFocus); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '1', gocui.ModNone, u.focusTeam); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '2', gocui.ModNone, u.focusTodo); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '3', gocui.ModNone, u.focusInProgress); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '4', gocui.ModNone, u.focusDone); err != nil {
		return err
	}

	for _, name := range []string{viewTeam, viewTodo, viewInProgress, viewDone} {
		if err := gui.SetKeybinding(name, gocui.KeyArrowDown, gocui.ModNone, u.moveDown); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, 'j', gocui.ModNone, u.moveDown); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, gocui.KeyArrowUp, gocui.ModNone, u.moveUp); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, 'k', gocui.ModNone, u.moveUp); err != nil {
			return err
		}
	}
	if err := gui.SetKeybinding(viewTodo, gocui.KeyEnter, gocui.ModNone, u.advanceSelected); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewInProgress, gocui.KeyEnter, gocui.ModNone, u.advanceSelected); err != nil {
		return err
	}

	if err := gui.SetKeybinding(viewForm, gocui.KeyEnter, gocui.ModNone, u.submitForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyEsc, gocui.ModNone, u.cancelForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyCtrlR, gocui.ModNone, u.switchAuthForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyTab, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyBacktab, gocui.ModNone, u.prevFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowDown, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowUp, gocui.ModNone, u.prevFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowRight, gocui.ModNone, u.cycleFieldForward); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowLeft, gocui.ModNone, u.cycleFieldBack); err != nil {
		return err
	}

	if err := gui.SetKeybinding(viewAssign, gocui.KeyArrowDown, gocui.ModNone, u.assignDown); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewAssign, 'j', gocui.ModNone, u.assignDown); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewAssign, gocui.KeyArrowUp, gocui.ModNone, u.assignUp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewAssign, 'k', gocui.ModNone, u.assignUp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewAssign, gocui.KeyEnter, gocui.ModNone, u.submitAssign); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewAssign, gocui.KeyEsc, gocui.ModNone, u.cancelAssign); err != nil {
		return err
	}

	if err := gui.SetKeybinding(viewSearch, gocui.KeyEnter, gocui.ModNone, u.submitSearch); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewSearch, gocui.KeyEsc, gocui.ModNone, u.cancelSearch); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewConfirm, gocui.KeyEnter, gocui.ModNone, u.confirmLeave); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewConfirm, gocui.KeyEsc, gocui.ModNone, u.cancelLeave); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewReports, gocui.KeyEsc, gocui.ModNone, u.closeReports); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, gocui.KeyEsc, gocui.ModNone, u.closeHelp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, 'q', gocui.ModNone, u.closeHelp); err != nil {
		return err
	}

	return nil
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	headerView.Wrap = true
	u.renderHeader(headerView)

	footerY1 := maxY - 2
	if footerY1 < 1 {
		footerY1 = 1
	}
	footerY0 := footerY1 - 2
	if footerY0 < 1 {
		footerY0 = 1
	}
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, footerY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.Wrap = true
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	u.renderFooter(footerView)

	if u.user == nil {
		for _, name := range []string{viewTeam, viewTodo, viewInProgress, viewDone, viewAssign, viewSearch, viewConfirm, viewReports} {
			_ = gui.DeleteView(name)
		}
		if u.form == nil {
			u.form = buildLoginForm()
		}
		if err := u.showForm(gui); err != nil {
			return err
		}
		gui.Cursor = true
		return nil
	}

	bodyTop := 1
	bodyBottom := footerY0 - 1
	if bodyBottom < bodyTop {
		return nil
	}
	bodyHeight := bodyBottom - bodyTop + 1

	teamHeight := bodyHeight / 3
	if teamHeight < 4 {
		teamHeight = 4
	}
	teamY1 := bodyTop + teamHeight - 1
	columnsY0 := teamY1 + 1
	if columnsY0 >= bodyBottom {
		columnsY0 = bodyBottom - 1
	}

	teamView, err := gui.SetView(viewTeam, 0, bodyTop, maxX-1, teamY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		teamView.Title = "1 Team Workload"
		teamView.TitleColor = gocui.ColorCyan
	}
	applyViewStyle(teamView, u.focus == viewTeam)
	u.renderTeam(teamView)

	columnWidth := maxX / 3
	todoView, err := gui.SetView(viewTodo, 0, columnsY0, columnWidth-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		todoView.Title = "2 To Do"
		todoView.TitleColor = gocui.ColorRed
	}
	applyViewStyle(todoView, u.focus == viewTodo)
	u.renderTaskList(todoView, u.todo, u.selectedTodo, u.focus == viewTodo)

	inProgressView, err := gui.SetView(viewInProgress, columnWidth, columnsY0, 2*columnWidth-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		inProgressView.Title = "3 In Progress"
		inProgressView.TitleColor = gocui.ColorYellow
	}
	applyViewStyle(inProgressView, u.focus == viewInProgress)
	u.renderTaskList(inProgressView, u.inprogress, u.selectedInProgress, u.focus == viewInProgress)

	doneView, err := gui.SetView(viewDone, 2*columnWidth, columnsY0, maxX-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		doneView.Title = "4 Done"
		doneView.TitleColor = gocui.ColorGreen
	}
	applyViewStyle(doneView, u.focus == viewDone)
	u.renderTaskList(doneView, u.done, u.selectedDone, u.focus == viewDone)

	if u.form != nil {
		if err := u.showForm(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewForm)
	}

	if u.assign != nil {
		if err := u.showAssign(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewAssign)
	}

	if u.searchActive {
		if err := u.showSearch(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewSearch)
	}

	if u.leaveActive {
		if err := u.showLeaveConfirm(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewConfirm)
	}

	if u.reportsActive {
		if err := u.showReports(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewReports)
	}

	if u.helpActive {
		if err := u.showHelp(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewHelp)
	}

	if gui.CurrentView() == nil && u.form == nil && u.assign == nil && !u.searchActive && !u.leaveActive {
		_, _ = gui.SetCurrentView(u.focus)
	}

	gui.Cursor = u.form != nil || u.searchActive

	return nil
}

// refresh rehydrates the working copy from the store and rebuilds the
// per-status task lists.
func (u *UI) refresh() error {
	collections, err := u.store.Collections(context.Background())
	if err != nil {
		return err
	}
	u.collections = collections

	u.todo = u.todo[:0]
	u.inprogress = u.inprogress[:0]
	u.done = u.done[:0]
	for _, task := range collections.Tasks {
		if !matchesQuery(task, u.query) {
			continue
		}
		switch task.Status {
		case model.StatusInProgress:
			u.inprogress = append(u.inprogress, task)
		case model.StatusDone:
			u.done = append(u.done, task)
		default:
			u.todo = append(u.todo, task)
		}
	}

	u.selectedTeam = clamp(u.selectedTeam, len(collections.Employees))
	u.selectedTodo = clamp(u.selectedTodo, len(u.todo))
	u.selectedInProgress = clamp(u.selectedInProgress, len(u.inprogress))
	u.selectedDone = clamp(u.selectedDone, len(u.done))
	return nil
}

// apply persists an engine result and reloads the working copy from the
// store, so the panes always render what is actually persisted.
func (u *UI) apply(next engine.Collections) error {
	if err := u.store.SaveCollections(context.Background(), next); err != nil {
		u.status = err.Error()
		return nil
	}
	u.status = ""
	return u.refresh()
}

func (u *UI) renderHeader(view *gocui.View) {
	view.Clear()
	if u.user == nil {
		fmt.Fprint(view, "OptiTask | not signed in")
		return
	}
	summary := engine.Summarize(u.collections)
	fmt.Fprintf(view, "OptiTask | %s (%s) | %d tasks, %d done | overloaded: %d",
		u.user.Name, u.user.Role, summary.TotalTasks, summary.CompletedTasks, summary.Overloaded)
	if u.query != "" {
		fmt.Fprintf(view, " | search: %q", u.query)
	}
}

func (u *UI) renderFooter(view *gocui.View) {
	view.Clear()
	if u.user == nil {
		fmt.Fprintln(view, "enter submit | tab next field | ctrl+r switch login/register | ctrl+c quit")
	} else {
		fmt.Fprintln(view, "a add task | m add member | s assign | enter start/complete | d delete | R reports | L logout")
		fmt.Fprintln(view, "/ search | g clear search | tab/1-4 panes | j/k move | r reload | ? help | q quit")
	}
	if u.status != "" {
		fmt.Fprint(view, u.status)
	}
}

func (u *UI) renderTeam(view *gocui.View) {
	view.Clear()
	for i, emp := range u.collections.Employees {
		prefix := " "
		if i == u.selectedTeam {
			if u.focus == viewTeam {
				prefix = ">"
			} else {
				prefix = "*"
			}
		}
		fmt.Fprintf(view, "%s %s\n", prefix, formatWorkloadRow(emp))
	}
	if u.focus == viewTeam {
		view.SetCursor(0, min(u.selectedTeam, len(u.collections.Employees)-1))
	}
}

func (u *UI) renderTaskList(view *gocui.View, tasks []model.Task, selected int, focused bool) {
	view.Clear()
	for i, task := range tasks {
		prefix := " "
		if i == selected {
			if focused {
				prefix = ">"
			} else {
				prefix = "*"
			}
		}
		fmt.Fprintf(view, "%s %s\n", prefix, formatTaskSummary(task, u.collections.Employees))
	}
	if focused {
		view.SetCursor(0, min(selected, len(tasks)-1))
	}
}

func (u *UI) showForm(gui *gocui.Gui) error {
	if u.form == nil {
		return nil
	}

	maxX, maxY := gui.Size()
	width := max(50, maxX/2)
	height := len(u.form.fields) + 1
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2
	x1 := x0 + width
	y1 := y0 + height

	view, err := gui.SetView(viewForm, x0, y0, x1, y1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Wrap = true
	}
	view.Title = u.form.title()
	view.Editable = true
	view.Editor = u.formEditor
	u.renderForm(view)
	_, _ = gui.SetCurrentView(viewForm)
	return nil
}

func (u *UI) renderForm(view *gocui.View) {
	if u.form == nil || view == nil {
		return
	}
	view.Clear()
	for index, field := range u.form.fields {
		prefix := "  "
		if index == u.form.index {
			prefix = "> "
		}
		fmt.Fprintf(view, "%s%s: %s\n", prefix, field.Label, displayValue(field))
	}
	current := u.form.fields[u.form.index]
	cursorX := len([]rune(current.Label)) + len([]rune(displayValue(current))) + 4
	view.SetCursor(cursorX, u.form.index)
}

func displayValue(field formField) string {
	if field.Secret {
		return strings.Repeat("*", len([]rune(field.Value)))
	}
	return field.Value
}

func (u *UI) showAssign(gui *gocui.Gui) error {
	if u.assign == nil {
		return nil
	}

	maxX, maxY := gui.Size()
	width := max(60, maxX/2)
	height := len(u.assign.candidates) + 2
	if height < 4 {
		height = 4
	}
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2
	x1 := x0 + width
	y1 := y0 + height

	view, err := gui.SetView(viewAssign, x0, y0, x1, y1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Wrap = true
	}
	view.Title = "Assign: " + u.assign.taskLabel

	view.Clear()
	if len(u.assign.candidates) == 0 {
		fmt.Fprint(view, "No available team members")
	}
	for i, emp := range u.assign.candidates {
		prefix := " "
		if i == u.assign.index {
			prefix = ">"
		}
		fmt.Fprintf(view, "%s %s\n", prefix, formatCandidateRow(emp, u.assign.taskHours))
	}
	_, _ = gui.SetCurrentView(viewAssign)
	return nil
}

func (u *UI) showReports(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(60, maxX/2)
	height := 14
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2
	x1 := x0 + width
	y1 := y0 + height

	view, err := gui.SetView(viewReports, x0, y0, x1, y1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "Reports"
		view.Wrap = true
	}
	view.Clear()
	fmt.Fprint(view, strings.Join(reportLines(u.collections), "\n"))
	_, _ = gui.SetCurrentView(viewReports)
	return nil
}

func (u *UI) showHelp(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(60, maxX/2)
	height := 14
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2
	x1 := x0 + width
	y1 := y0 + height

	view, err := gui.SetView(viewHelp, x0, y0, x1, y1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "Help"
		view.Wrap = true
	}
	view.Clear()
	fmt.Fprint(view, helpText())
	_, _ = gui.SetCurrentView(viewHelp)
	return nil
}

func (u *UI) submitForm(gui *gocui.Gui, _ *gocui.View) error {
	if u.form == nil {
		return nil
	}

	switch u.form.kind {
	case formLogin:
		email := strings.TrimSpace(u.form.fields[loginFieldEmail].Value)
		password := u.form.fields[loginFieldPassword].Value
		user, err := session.Authenticate(u.collections.Users, email, password)
		if err != nil {
			u.status = err.Error()
			return nil
		}
		u.user = &user
		u.status = ""
		return u.closeForm(gui)

	case formRegister:
		input := parseRegisterForm(u.form.fields)
		user, employee, err := session.Register(u.collections.Users, input)
		if err != nil {
			u.status = err.Error()
			return nil
		}
		next := session.Insert(u.collections, user, employee)
		if err := u.apply(next); err != nil {
			return err
		}
		u.user = &user
		return u.closeForm(gui)

	case formTask:
		input, err := parseTaskForm(u.form.fields)
		if err != nil {
			u.status = err.Error()
			return nil
		}
		next, err := engine.AddTask(u.collections, input, u.user.ID)
		if err != nil {
			u.status = err.Error()
			return nil
		}
		if err := u.apply(next); err != nil {
			return err
		}
		return u.closeForm(gui)

	default: // formMember
		name := u.form.fields[memberFieldName].Value
		role := model.Role(u.form.fields[memberFieldRole].Value)
		domain := model.Domain(u.form.fields[memberFieldDomain].Value)
		next, err := engine.AddEmployee(u.collections, name, role, domain)
		if err != nil {
			u.status = err.Error()
			return nil
		}
		if err := u.apply(next); err != nil {
			return err
		}
		return u.closeForm(gui)
	}
}

func (u *UI) cancelForm(gui *gocui.Gui, _ *gocui.View) error {
	if u.form == nil || u.form.kind == formLogin {
		return nil
	}
	if u.form.kind == formRegister {
		u.form = buildLoginForm()
		return nil
	}
	return u.closeForm(gui)
}

func (u *UI) closeForm(gui *gocui.Gui) error {
	u.form = nil
	if gui != nil {
		_ = gui.DeleteView(viewForm)
		_, _ = gui.SetCurrentView(u.focus)
	}
	return nil
}

func (u *UI) switchAuthForm(gui *gocui.Gui, _ *gocui.View) error {
	if u.form == nil || u.user != nil {
		return nil
	}
	switch u.form.kind {
	case formLogin:
		u.form = buildRegisterForm()
	case formRegister:
		u.form = buildLoginForm()
	}
	return nil
}

func (u *UI) nextFormField(gui *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index < len(u.form.fields)-1 {
		u.form.index++
	}
	u.renderForm(view)
	return nil
}

func (u *UI) prevFormField(gui *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index > 0 {
		u.form.index--
	}
	u.renderForm(view)
	return nil
}

func (u *UI) cycleFieldForward(gui *gocui.Gui, view *gocui.View) error {
	return u.cycleField(view, 1)
}

func (u *UI) cycleFieldBack(gui *gocui.Gui, view *gocui.View) error {
	return u.cycleField(view, -1)
}

func (u *UI) cycleField(view *gocui.View, delta int) error {
	if u.form == nil {
		return nil
	}
	field := &u.form.fields[u.form.index]
	if len(field.Options) == 0 {
		return nil
	}
	field.Value = cycleOption(field.Options, field.Value, delta)
	u.renderForm(view)
	return nil
}

func (e *formEditor) Edit(view *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ui := e.ui
	if ui == nil || ui.form == nil || view == nil {
		return false
	}
	field := &ui.form.fields[ui.form.index]

	if len(field.Options) > 0 {
		if key == gocui.KeySpace {
			field.Value = cycleOption(field.Options, field.Value, 1)
			ui.renderForm(view)
			return true
		}
		if ch != 0 {
			return true
		}
		return false
	}

	switch key {
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		runes := []rune(field.Value)
		if len(runes) > 0 {
			field.Value = string(runes[:len(runes)-1])
		}
		ui.renderForm(view)
		return true
	case gocui.KeySpace:
		field.Value += " "
		ui.renderForm(view)
		return true
	case gocui.KeyCtrlU:
		field.Value = ""
		ui.renderForm(view)
		return true
	}

	if ch != 0 && ch != '\n' && ch != '\r' && mod == 0 {
		field.Value += string(ch)
		ui.renderForm(view)
		return true
	}

	return false
}

func (u *UI) openTaskForm(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.user == nil {
		return nil
	}
	if !model.PermissionTier(u.user.Role).CanManage {
		u.status = "Only Admin or Manager can add tasks"
		return nil
	}
	u.form = buildTaskForm()
	return nil
}

func (u *UI) openMemberForm(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.user == nil {
		return nil
	}
	if !model.PermissionTier(u.user.Role).CanManage {
		u.status = "Only Admin or Manager can add members"
		return nil
	}
	u.form = buildMemberForm()
	return nil
}

func (u *UI) openAssign(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.user == nil {
		return nil
	}
	if !model.PermissionTier(u.user.Role).CanManage {
		u.status = "Only Admin or Manager can assign tasks"
		return nil
	}
	if u.focus != viewTodo {
		u.status = "Select a task in the To Do pane to assign"
		return nil
	}
	task := selectedFrom(u.todo, u.selectedTodo)
	if task == nil {
		return nil
	}
	if task.AssignedTo != nil {
		u.status = "Task is already assigned"
		return nil
	}

	u.assign = &assignState{
		taskID:     task.ID,
		taskLabel:  fmt.Sprintf("%s (%dh, %s)", task.Name, task.Hours, task.Priority),
		taskHours:  task.Hours,
		candidates: engine.AssignmentCandidates(u.collections.Employees),
	}
	return nil
}

func (u *UI) assignDown(gui *gocui.Gui, _ *gocui.View) error {
	if u.assign != nil && u.assign.index < len(u.assign.candidates)-1 {
		u.assign.index++
	}
	return nil
}

func (u *UI) assignUp(gui *gocui.Gui, _ *gocui.View) error {
	if u.assign != nil && u.assign.index > 0 {
		u.assign.index--
	}
	return nil
}

func (u *UI) submitAssign(gui *gocui.Gui, _ *gocui.View) error {
	if u.assign == nil {
		return nil
	}
	if u.assign.index < 0 || u.assign.index >= len(u.assign.candidates) {
		return u.cancelAssign(gui, nil)
	}
	candidate := u.assign.candidates[u.assign.index]

	next, err := engine.AssignTask(u.collections, u.assign.taskID, candidate.ID)
	if err != nil {
		u.status = err.Error()
		return u.cancelAssign(gui, nil)
	}
	if err := u.apply(next); err != nil {
		return err
	}
	return u.cancelAssign(gui, nil)
}

func (u *UI) cancelAssign(gui *gocui.Gui, _ *gocui.View) error {
	u.assign = nil
	if gui != nil {
		_ = gui.DeleteView(viewAssign)
		_, _ = gui.SetCurrentView(u.focus)
	}
	return nil
}

func (u *UI) startSearch(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.user == nil {
		return nil
	}
	u.searchActive = true
	return nil
}

func (u *UI) showSearch(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(30, maxX/2)
	height := 2
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2
	x1 := x0 + width
	y1 := y0 + height

	view, err := gui.SetView(viewSearch, x0, y0, x1, y1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "Search tasks"
		view.Wrap = true
		view.Clear()
		fmt.Fprint(view, u.query)
	}
	view.Editable = true
	view.Editor = gocui.DefaultEditor
	_, _ = gui.SetCurrentView(viewSearch)
	return nil
}

func (u *UI) submitSearch(gui *gocui.Gui, view *gocui.View) error {
	return u.setQuery(gui, strings.TrimSpace(view.Buffer()))
}

// setQuery applies a task name filter to the kanban columns.
func (u *UI) setQuery(gui *gocui.Gui, query string) error {
	u.query = query
	u.searchActive = false
	u.status = ""
	if gui != nil {
		_ = gui.DeleteView(viewSearch)
		_, _ = gui.SetCurrentView(u.focus)
	}
	u.selectedTodo = 0
	u.selectedInProgress = 0
	u.selectedDone = 0
	return u.refresh()
}

func (u *UI) cancelSearch(gui *gocui.Gui, _ *gocui.View) error {
	u.searchActive = false
	_ = gui.DeleteView(viewSearch)
	_, _ = gui.SetCurrentView(u.focus)
	return nil
}

func (u *UI) clearSearch(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.user == nil || u.query == "" {
		return nil
	}
	return u.setQuery(gui, "")
}

func (u *UI) openLeave(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.user == nil {
		return nil
	}
	u.leaveActive = true
	return nil
}

func (u *UI) showLeaveConfirm(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(50, maxX/2)
	height := 3
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2
	x1 := x0 + width
	y1 := y0 + height

	view, err := gui.SetView(viewConfirm, x0, y0, x1, y1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "Leave Organization"
		view.Wrap = true
	}
	view.Clear()
	fmt.Fprintf(view, "Delete the account and member record for %s?\nenter confirm | esc cancel", u.user.Name)
	_, _ = gui.SetCurrentView(viewConfirm)
	return nil
}

// confirmLeave removes the signed-in user's account and member record
// together, then drops back to the login screen.
func (u *UI) confirmLeave(gui *gocui.Gui, _ *gocui.View) error {
	if !u.leaveActive || u.user == nil {
		return nil
	}

	next := session.RemoveAccount(u.collections, u.user.ID)
	if err := u.apply(next); err != nil {
		return err
	}
	u.leaveActive = false
	u.user = nil
	u.form = buildLoginForm()
	u.status = "Account removed"
	if gui != nil {
		_ = gui.DeleteView(viewConfirm)
	}
	return nil
}

func (u *UI) cancelLeave(gui *gocui.Gui, _ *gocui.View) error {
	u.leaveActive = false
	if gui != nil {
		_ = gui.DeleteView(viewConfirm)
		_, _ = gui.SetCurrentView(u.focus)
	}
	return nil
}

// advanceSelected moves the selected task one step along its lifecycle:
// To Do pane starts it, In Progress pane completes it.
func (u *UI) advanceSelected(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.user == nil {
		return nil
	}

	var task *model.Task
	var target model.Status
	switch u.focus {
	case viewTodo:
		task = selectedFrom(u.todo, u.selectedTodo)
		target = model.StatusInProgress
	case viewInProgress:
		task = selectedFrom(u.inprogress, u.selectedInProgress)
		target = model.StatusDone
	default:
		return nil
	}
	if task == nil {
		return nil
	}

	next, err := engine.MoveTask(u.collections, task.ID, target, *u.user)
	if err != nil {
		u.status = err.Error()
		return nil
	}
	return u.apply(next)
}

func (u *UI) deleteSelected(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.user == nil {
		return nil
	}

	if u.focus == viewTeam {
		emp := selectedEmployee(u.collections.Employees, u.selectedTeam)
		if emp == nil {
			return nil
		}
		next, err := engine.DeleteEmployee(u.collections, emp.ID, *u.user)
		if err != nil {
			u.status = err.Error()
			return nil
		}
		return u.apply(next)
	}

	var task *model.Task
	switch u.focus {
	case viewTodo:
		task = selectedFrom(u.todo, u.selectedTodo)
	case viewInProgress:
		task = selectedFrom(u.inprogress, u.selectedInProgress)
	case viewDone:
		task = selectedFrom(u.done, u.selectedDone)
	}
	if task == nil {
		return nil
	}

	next, err := engine.DeleteTask(u.collections, task.ID, *u.user)
	if err != nil {
		u.status = err.Error()
		return nil
	}
	return u.apply(next)
}

func (u *UI) toggleReports(gui *gocui.Gui, _ *gocui.View) error {
	if u.user == nil || (u.inputActive() && !u.reportsActive) {
		return nil
	}
	if !u.reportsActive && !model.PermissionTier(u.user.Role).CanViewReports {
		u.status = "Reports are available for Admin, Manager, and Team Lead roles only"
		return nil
	}
	u.reportsActive = !u.reportsActive
	return nil
}

func (u *UI) closeReports(gui *gocui.Gui, _ *gocui.View) error {
	u.reportsActive = false
	_ = gui.DeleteView(viewReports)
	_, _ = gui.SetCurrentView(u.focus)
	return nil
}

func (u *UI) toggleHelp(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() && !u.helpActive {
		return nil
	}
	u.helpActive = !u.helpActive
	return nil
}

func (u *UI) closeHelp(gui *gocui.Gui, _ *gocui.View) error {
	u.helpActive = false
	_ = gui.DeleteView(viewHelp)
	_, _ = gui.SetCurrentView(u.focus)
	return nil
}

func (u *UI) logout(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.user == nil {
		return nil
	}
	u.user = nil
	u.form = buildLoginForm()
	u.query = ""
	u.reportsActive = false
	u.status = ""
	return nil
}

func (u *UI) switchFocus(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	switch u.focus {
	case viewTeam:
		u.focus = viewTodo
	case viewTodo:
		u.focus = viewInProgress
	case viewInProgress:
		u.focus = viewDone
	default:
		u.focus = viewTeam
	}
	_, _ = gui.SetCurrentView(u.focus)
	return nil
}

func (u *UI) focusTeam(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewTeam)
}

func (u *UI) focusTodo(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewTodo)
}

func (u *UI) focusInProgress(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewInProgress)
}

func (u *UI) focusDone(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewDone)
}

func (u *UI) setFocus(gui *gocui.Gui, name string) error {
	if u.inputActive() {
		return nil
	}
	u.focus = name
	_, _ = gui.SetCurrentView(name)
	return nil
}

func (u *UI) moveDown(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	switch u.focus {
	case viewTeam:
		if u.selectedTeam < len(u.collections.Employees)-1 {
			u.selectedTeam++
		}
	case viewTodo:
		if u.selectedTodo < len(u.todo)-1 {
			u.selectedTodo++
		}
	case viewInProgress:
		if u.selectedInProgress < len(u.inprogress)-1 {
			u.selectedInProgress++
		}
	case viewDone:
		if u.selectedDone < len(u.done)-1 {
			u.selectedDone++
		}
	}
	return nil
}

func (u *UI) moveUp(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	switch u.focus {
	case viewTeam:
		if u.selectedTeam > 0 {
			u.selectedTeam--
		}
	case viewTodo:
		if u.selectedTodo > 0 {
			u.selectedTodo--
		}
	case viewInProgress:
		if u.selectedInProgress > 0 {
			u.selectedInProgress--
		}
	case viewDone:
		if u.selectedDone > 0 {
			u.selectedDone--
		}
	}
	return nil
}

func (u *UI) reload(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.status = ""
	return u.refresh()
}

func (u *UI) inputActive() bool {
	return u.form != nil || u.assign != nil || u.searchActive || u.leaveActive || u.reportsActive || u.helpActive
}

func (u *UI) quit(_ *gocui.Gui, _ *gocui.View) error {
	if u.form != nil {
		return nil
	}
	return gocui.ErrQuit
}

func matchesQuery(task model.Task, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(task.Name), strings.ToLower(query))
}

func selectedFrom(tasks []model.Task, index int) *model.Task {
	if index >= 0 && index < len(tasks) {
		return &tasks[index]
	}
	return nil
}

func selectedEmployee(employees []model.Employee, index int) *model.Employee {
	if index >= 0 && index < len(employees) {
		return &employees[index]
	}
	return nil
}

func helpText() string {
	return strings.Join([]string{
		"Navigation:",
		"  Tab cycle panes | 1 Team | 2 To Do | 3 In Progress | 4 Done",
		"  j/k or arrows move selection",
		"",
		"Actions (Admin/Manager where noted):",
		"  a add task | m add member | s assign selected (To Do pane)",
		"  enter start (To Do) / complete (In Progress)",
		"  d delete selected task or member",
		"",
		"Search:",
		"  / search tasks by name | g clear search",
		"",
		"Reports:",
		"  R reports (Admin/Manager/Team Lead) | esc close",
		"",
		"Session:",
		"  L logout | X leave organization | r reload | ? help | esc/q close help | q quit",
	}, "\n")
}

func applyViewStyle(view *gocui.View, focused bool) {
	view.Frame = true
	view.Highlight = focused
	view.HighlightInactive = false
	view.SelBgColor = gocui.ColorBlue
	view.SelFgColor = gocui.ColorBlack
	view.InactiveViewSelBgColor = gocui.ColorDefault
	if focused {
		view.FrameColor = gocui.ColorCyan
	} else {
		view.FrameColor = gocui.ColorDefault
	}
}

func clamp(index, length int) int {
	if index >= length {
		return max(length-1, 0)
	}
	return index
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
