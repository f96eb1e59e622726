package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/and161185/travel-kanban/internal/model"
	grpcserver "github.com/and161185/travel-kanban/internal/server/grpc"
	"github.com/and161185/travel-kanban/internal/service"
)

const dateLayout = "2006-01-02"

// command is one tkctl subcommand. Public commands run without a stored token.
type command struct {
	help   string
	public bool
	run    func(ctx context.Context, c *grpcserver.Client, args []string) (any, error)
}

var commands = map[string]command{
	"register":      {help: "-email <e> -username <u> -p <password>", public: true, run: cmdRegister},
	"login":         {help: "-email <e> -p <password>  (saves token)", public: true, run: cmdLogin},
	"resolve":       {help: "-token <share token>", public: true, run: cmdResolve},
	"boards":        {help: "list your boards", run: cmdBoards},
	"board":         {help: "-id <board>", run: cmdBoard},
	"board-create":  {help: "-title <t> [-currency EUR -budget 1200 -start 2025-07-01 -end 2025-07-14 -seed=false]", run: cmdBoardCreate},
	"board-rm":      {help: "-id <board>", run: cmdBoardRemove},
	"members":       {help: "-board <board>", run: cmdMembers},
	"invite":        {help: "-board <board> -email <e> [-role editor|viewer|owner]", run: cmdInvite},
	"share":         {help: "-board <board> -action enable|rotate|disable", run: cmdShare},
	"lists":         {help: "-board <board>", run: cmdLists},
	"list-create":   {help: "-board <board> -title <t> [-color blue]", run: cmdListCreate},
	"list-move":     {help: "-id <list> -index <n>", run: cmdListMove},
	"cards":         {help: "-list <list> [-search s -ordering due_date -page 1 -size 20]", run: cmdCards},
	"card-create":   {help: "-list <list> -title <t> [-category hotel -due 2025-07-02 -budget 80 -people 2]", run: cmdCardCreate},
	"card-move":     {help: "-id <card> [-to <list>] -index <n>", run: cmdCardMove},
	"card-assign":   {help: "-id <card> -users <id,id>", run: cmdCardAssign},
	"stats":         {help: "-board <board>", run: cmdStats},
	"budget":        {help: "-board <board>", run: cmdBudget},
	"expense-add":   {help: "-board <board> -title <t> -amount 12.50 -category food [-currency EUR -date 2025-07-03 -notes n]", run: cmdExpenseAdd},
	"expenses":      {help: "-board <board> [-category food -from 2025-07-01 -to 2025-07-14]", run: cmdExpenses},
	"location-add":  {help: "-board <board> -name <n> -lat <f> -lng <f>", run: cmdLocationAdd},
	"locations":     {help: "-board <board>", run: cmdLocations},
	"notifications": {help: "[-limit 20]", run: cmdNotifications},
}

// ---- parsing ----

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("bad date %q (want YYYY-MM-DD)", s)
	}
	return &t, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad amount %q", s)
	}
	return d, nil
}

func splitIDs(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func need(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			missing = append(missing, "-"+pairs[i])
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("need %s", strings.Join(missing, " "))
	}
	return nil
}

func newFlags(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func boardFlag(name string, args []string) (string, error) {
	fs := newFlags(name)
	id := fs.String("board", "", "board id")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	return *id, need("board", *id)
}

// ---- accounts ----

func cmdRegister(ctx context.Context, c *grpcserver.Client, args []string) (any, error) {
	fs := newFlags("register")
	email := fs.String("email", "", "email")
	user := fs.String("username", "", "display name")
	pass := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := need("email", *email, "username", *user, "p", *pass); err != nil {
		return nil, err
	}
	return c.Register(ctx, &grpcserver.RegisterRequest{Email: *email, Username: *user, Password: *pass})
}

func cmdLogin(ctx context.Context, c *grpcserver.Client, args []string) (any, error) {
	fs := newFlags("login")
	email := fs.String("email", "", "email")
	pass := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := need("email", *email, "p", *pass); err != nil {
		return nil, err
	}
	resp, err := c.Login(ctx, &grpcserver.LoginRequest{Email: *email, Password: *pass})
	if err != nil {
		return nil, err
	}
	if err := saveToken(tokenFile{
		AccessToken: resp.AccessToken,
		ExpiresAt:   resp.ExpiresAt,
		UserID:      resp.UserID,
		Email:       resp.Email,
	}); err != nil {
		return nil, err
	}
	return map[string]any{"user_id": resp.UserID, "expires_at": resp.ExpiresAt}, nil
}

func cmdResolve(ctx context.Context, c *grpcserver.Client, args []string) (any, error) {
	fs := newFlags("resolve")
	tok := fs.String("token", "", "share token")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := need("token", *tok); err != nil {
		return nil, err
	}
	return c.ResolveSharedBoard(ctx, &grpcserver.ResolveRequest{Token: *tok})
}

func cmdNotifications(ctx context.Context, c *grpcserver.Client, args []string) (any, error) {
	fs := newFlags("notifications")
	limit := fs.Int("limit", 0, "max entries (0 = server default)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c.ListNotifications(ctx, &grpcserver.ListNotificationsRequest{Limit: *limit})
}

// ---- boards ----

func cmdBoards(ctx context.Context, c *grpcserver.Client, _ []string) (any, error) {
	return c.ListBoards(ctx, &grpcserver.Empty{})
}

func cmdBoard(ctx context.Context, c *grpcserver.Client, args []string) (any, error) {
	fs := newFlags("board")
	id := fs.String("id", "", "board id")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := need("id", *id); err != nil {
		return nil, err
	}
	return c.GetBoard(ctx, &grpcserver.BoardRef{BoardID: *id})
}

func cmdBoardCreate(ctx context.Context, c *grpcserver.Client, args []string) (any, error) {
	fs := newFlags("board-create")
	title := fs.String("title", "", "title")
	desc := fs.String("desc", "", "description")
	currency := fs.String("currency", "", "ISO 4217 code")
	budget := fs.String("budget", "", "planned budget")
	start := fs.String("start", "", "start date YYYY-MM-DD")
	end := fs.String("end", "", "end date YYYY-MM-DD")
	status := fs.String("status", "", "planning, active or completed")
	fav := fs.Bool("favorite", false, "mark as favorite")
	seed := fs.Bool("seed", true, "append the default lists")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := need("title", *title); err != nil {
		return nil, err
	}
	in := service.BoardInput{Title: *title, Description: *desc, Currency: strings.ToUpper(*currency),
		Status: *status, Favorite: *fav}
	var err error
	if in.Budget, err = parseAmount(*budget); err != nil {
		return nil, err
	}
	if in.StartDate, err = parseDate(*start); err != nil {
		return nil, err
	}
	if in.EndDate, err = parseDate(*end); err != nil {
		return nil, err
	}
	return c.CreateBoard(ctx, &grpcserver.CreateBoardRequest{BoardInput: in, SeedLists: seed})
}

func cmdBoardRemove(ctx context.Context, c *grpcserver.Client, args []string) (any, error) {
	fs := newFlags("board-rm")
	id := fs.String("id", "", "board id")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := need("id", *id); err != nil {
		return nil, err
	}
	if _, err := c.DeleteBoard(ctx, &grpcserver.BoardRef{BoardID: *id}); err != nil {
		return nil, err
	}
	return map[string]string{"deleted": *id}, nil
}

func cmdMembers(ctx context.Context, c *grpcserver.Client, args []string) (any, error) {
	id, err := boardFlag("members", args)
	if err != nil {
		return nil, err
	}
	return c.ListMembers(ctx, &grpcserver.BoardRef{BoardID: id})
}

func cmdInvite(ctx context.Context, c *grpcserver.Client, args []string) (any, error) {
	fs := newFlags("invite")
	board := fs.String("board", "", "board id")
	email := fs.String("email", "", "invitee email")
	role := fs.String("role", string(model.RoleEditor), "owner, editor or viewer")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := need("board", *board, "email", *email); err != nil {
		return nil, err
	}
	return c.InviteMember(ctx, &grpcserver.InviteMemberRequest{BoardID: *board, Email: *email, Role: model.Role(*role)})
}

func cmdShare(ctx context.Context, c *grpcserver.Client, args []string) (any, error) {
	fs := newFlags("share")
	board := fs.String("board", "", "board id")
	action := fs.String("action", "enable", "enable, rotate or disable")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := need("board", *board); err != nil {
		return nil, err
	}
	ref := &grpcserver.BoardRef{BoardID: *board}
	switch *action {
	case "enable":
		return c.EnableShare(ctx, ref)
	case "rotate":
		return c.RotateShare(ctx, ref)
	case "disable":
		return c.DisableShare(ctx, ref)
	default:
		return nil, fmt.Errorf("unknown share action %q", *action)
	}
}

// ---- lists and cards ----

func cmdLists(ctx context.Context, c *grpcserver.Client, args []string) (any, error) {
	id, err := boardFlag("lists", args)
	if err != nil {
		return nil, err
	}
	return c.ListLists(ctx, &grpcserver.BoardRef{BoardID: id})
}

func cmdListCreate(ctx context.Context, c *grpcserver.Client, args []string) (any, error) {
	fs := newFlags("list-create")
	board := fs.String("board", "", "board id")
	title := fs.String("title", "", "title")
	color := fs.String("color", "", "color label")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := need("board", *board, "title", *title); err != nil {
		return nil, err
	}
	return c.CreateList(ctx, &grpcserver.CreateListRequest{
		BoardID:   *board,
		ListInput: service.ListInput{Title: *title, Color: *color},
	})
}

func cmdListMove(ctx context.Context, c *grpcserver.Client, args []string) (any, error) {
	fs := newFlags("list-move")
	id := fs.String("id", "", "list id")
	index := fs.Int("index", 0, "target position")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := need("id", *id); err != nil {
		return nil, err
	}
	return c.MoveList(ctx, &grpcserver.MoveListRequest{ListID: *id, Index: *index})
}

func cmdCards(ctx context.Context, c *grpcserver.Client, args []string) (any, error) {
	fs := newFlags("cards")
	list := fs.String("list", "", "list id")
	search := fs.String("search", "", "title/description substring")
	ordering := fs.String("ordering", "", "position, due_date, -budget, ...")
	page := fs.Int("page", 1, "page number")
	size := fs.Int("size", 0, "page size (0 = server default)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := need("list", *list); err != nil {
		return nil, err
	}
	return c.QueryCards(ctx, &grpcserver.QueryCardsRequest{
		ListID:   *list,
		Search:   *search,
		Ordering: *ordering,
		Page:     *page,
		PageSize: *size,
	})
}

func cmdCardCreate(ctx context.Context, c *grpcserver.Client, args []string) (any, error) {
	fs := newFlags("card-create")
	list := fs.String("list", "", "list id")
	title := fs.String("title", "", "title")
	desc := fs.String("desc", "", "description")
	category := fs.String("category", "", "flight, hotel, food, activity, romantic or family")
	due := fs.String("due", "", "due date YYYY-MM-DD")
	budget := fs.String("budget", "", "planned cost")
	people := fs.Int("people", -1, "number of people")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := need("list", *list, "title", *title); err != nil {
		return nil, err
	}
	in := service.CardInput{Title: *title, Description: *desc, Category: *category}
	var err error
	if in.Budget, err = parseAmount(*budget); err != nil {
		return nil, err
	}
	if in.DueDate, err = parseDate(*due); err != nil {
		return nil, err
	}
	if *people >= 0 {
		in.People = people
	}
	return c.CreateCard(ctx, &grpcserver.CreateCardRequest{ListID: *list, CardInput: in})
}

func cmdCardMove(ctx context.Context, c *grpcserver.Client, args []string) (any, error) {
	fs := newFlags("card-move")
	id := fs.String("id", "", "card id")
	to := fs.String("to", "", "destination list (default: same list)")
	index := fs.Int("index", 0, "target position")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := need("id", *id); err != nil {
		return nil, err
	}
	return c.MoveCard(ctx, &grpcserver.MoveCardRequest{CardID: *id, ToList: *to, Index: *index})
}

func cmdCardAssign(ctx context.Context, c *grpcserver.Client, args []string) (any, error) {
	fs := newFlags("card-assign")
	id := fs.String("id", "", "card id")
	users := fs.String("users", "", "comma-separated user ids")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := need("id", *id, "users", *users); err != nil {
		return nil, err
	}
	return c.AssignCard(ctx, &grpcserver.AssignRequest{CardID: *id, UserIDs: splitIDs(*users)})
}

// ---- budget ----

func cmdStats(ctx context.Context, c *grpcserver.Client, args []string) (any, error) {
	id, err := boardFlag("stats", args)
	if err != nil {
		return nil, err
	}
	return c.BoardStats(ctx, &grpcserver.BoardRef{BoardID: id})
}

func cmdBudget(ctx context.Context, c *grpcserver.Client, args []string) (any, error) {
	id, err := boardFlag("budget", args)
	if err != nil {
		return nil, err
	}
	return c.BudgetSummary(ctx, &grpcserver.BoardRef{BoardID: id})
}

func cmdExpenseAdd(ctx context.Context, c *grpcserver.Client, args []string) (any, error) {
	fs := newFlags("expense-add")
	board := fs.String("board", "", "board id")
	title := fs.String("title", "", "title")
	amount := fs.String("amount", "", "amount spent")
	category := fs.String("category", "", "travel, lodging, food, activities, fees or misc")
	currency := fs.String("currency", "", "ISO 4217 code (default: board currency)")
	date := fs.String("date", "", "date YYYY-MM-DD (default: today)")
	notes := fs.String("notes", "", "notes")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := need("board", *board, "title", *title, "amount", *amount, "category", *category); err != nil {
		return nil, err
	}
	in := service.ExpenseInput{Title: *title, Category: *category, Currency: strings.ToUpper(*currency), Notes: *notes}
	var err error
	if in.Amount, err = parseAmount(*amount); err != nil {
		return nil, err
	}
	if in.Date, err = parseDate(*date); err != nil {
		return nil, err
	}
	return c.CreateExpense(ctx, &grpcserver.CreateExpenseRequest{BoardID: *board, ExpenseInput: in})
}

func cmdExpenses(ctx context.Context, c *grpcserver.Client, args []string) (any, error) {
	fs := newFlags("expenses")
	board := fs.String("board", "", "board id")
	category := fs.String("category", "", "category filter")
	from := fs.String("from", "", "from date YYYY-MM-DD")
	to := fs.String("to", "", "to date YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := need("board", *board); err != nil {
		return nil, err
	}
	req := &grpcserver.ListExpensesRequest{BoardID: *board, Category: *category}
	var err error
	if req.DateFrom, err = parseDate(*from); err != nil {
		return nil, err
	}
	if req.DateTo, err = parseDate(*to); err != nil {
		return nil, err
	}
	return c.ListExpenses(ctx, req)
}

// ---- locations ----

func cmdLocationAdd(ctx context.Context, c *grpcserver.Client, args []string) (any, error) {
	fs := newFlags("location-add")
	board := fs.String("board", "", "board id")
	name := fs.String("name", "", "place name")
	lat := fs.Float64("lat", 0, "latitude")
	lng := fs.Float64("lng", 0, "longitude")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := need("board", *board, "name", *name); err != nil {
		return nil, err
	}
	if *lat == 0 && *lng == 0 {
		return nil, errors.New("need -lat and -lng")
	}
	return c.AddLocation(ctx, &grpcserver.AddLocationRequest{
		BoardID:       *board,
		LocationInput: service.LocationInput{Name: *name, Lat: *lat, Lng: *lng},
	})
}

func cmdLocations(ctx context.Context, c *grpcserver.Client, args []string) (any, error) {
	id, err := boardFlag("locations", args)
	if err != nil {
		return nil, err
	}
	return c.ListLocations(ctx, &grpcserver.BoardRef{BoardID: id})
}
