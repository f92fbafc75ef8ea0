// perdecim is a CLI for the storefront API.
// Each command performs a single operation, making it composable for scripts.
//
// Commands:
//
//	perdecim login -email ADDR -password PW
//	perdecim register -name NAME -email ADDR -password PW
//	perdecim verify-2fa -code CODE
//	perdecim logout
//	perdecim whoami
//	perdecim cart <show|add|update|rm|clear|merge> [options]
//	perdecim products [-search TEXT] [-category ID] [-page N]
//	perdecim categories
//	perdecim coupon -code CODE
//	perdecim addresses
//	perdecim order -address ID -payment METHOD [-coupon CODE]
//	perdecim orders [-id ID]
//	perdecim compare <show|add|rm|clear> [options]
//
// Examples:
//
//	perdecim login -email jane@example.com -password secret
//	perdecim cart add -product 60 -qty 2
//	CART=$(perdecim cart show -q)
//	perdecim order -address addr_1 -payment card
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"perdecim-client/internal/api"
	"perdecim-client/internal/config"
	"perdecim-client/internal/credentials"
	"perdecim-client/internal/model"
	"perdecim-client/internal/store"
)

// Global flags (apply to all commands)
var (
	quiet   bool
	noColor bool
	verbose bool
)

// ANSI color codes
var (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

func init() {
	if os.Getenv("NO_COLOR") != "" {
		disableColors()
	}
}

func disableColors() {
	colorReset, colorRed, colorGreen = "", "", ""
	colorYellow, colorCyan, colorGray, colorBold = "", "", "", ""
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "login":
		runLogin(args)
	case "register":
		runRegister(args)
	case "verify-2fa":
		runVerify2FA(args)
	case "logout":
		runLogout(args)
	case "whoami":
		runWhoami(args)
	case "cart":
		runCart(args)
	case "products":
		runProducts(args)
	case "categories":
		runCategories(args)
	case "coupon":
		runCoupon(args)
	case "addresses":
		runAddresses(args)
	case "order":
		runOrder(args)
	case "orders":
		runOrders(args)
	case "compare":
		runCompare(args)
	case "-h", "-help", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `perdecim - storefront shopping tool

Usage:
  perdecim <command> [options]

Commands:
  login       Sign in with email and password
  register    Create an account
  verify-2fa  Complete a pending two-factor login
  logout      Drop the local session (guest cart survives)
  whoami      Show the signed-in account
  cart        Cart operations: show, add, update, rm, clear, merge
  products    Search the catalog
  categories  List product categories
  coupon      Validate a discount code
  addresses   List saved delivery addresses
  order       Place an order from the current cart
  orders      List orders, or show one with -id
  compare     Comparison list: show, add, rm, clear

Examples:
  # Sign in and merge the guest cart
  perdecim login -email jane@example.com -password secret

  # Build up a cart anonymously
  perdecim cart add -product 60 -qty 2
  perdecim cart show

  # Place an order
  perdecim order -address addr_1 -payment card

Run 'perdecim <command> -h' for command-specific options.
`)
}

// =============================================================================
// APP WIRING
// =============================================================================

// app bundles the SDK pieces a command needs.
type app struct {
	cfg     *config.Config
	creds   *credentials.Store
	client  *api.Client
	cart    *store.CartStore
	auth    *store.AuthStore
	compare *store.CompareStore
}

// newApp loads config, opens the credential store, and wires the client and
// stores together. The client's auth-expiry hook drives the auth store's
// local reset, mirroring the forced sign-out in the storefront.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	creds, err := credentials.Open(cfg.Store.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("opening credentials: %w", err)
	}

	logger := initLogger()
	notifier := &printNotifier{}

	var authStore *store.AuthStore
	client, err := api.New(api.Config{
		BaseURL: cfg.Store.APIBaseURL,
		Creds:   creds,
		Logger:  logger,
		OnAuthExpired: func() {
			if authStore != nil {
				authStore.HandleAuthExpired()
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	cartStore := store.NewCart(store.CartConfig{
		API:      client,
		Notifier: notifier,
		Logger:   logger,
	})
	authStore = store.NewAuth(store.AuthConfig{
		API:      client,
		Creds:    creds,
		Cart:     cartStore,
		Notifier: notifier,
		Logger:   logger,
	})

	return &app{
		cfg:     cfg,
		creds:   creds,
		client:  client,
		cart:    cartStore,
		auth:    authStore,
		compare: store.NewCompare(creds, notifier),
	}, nil
}

// initLogger builds the CLI logger: debug text to stderr with -v, warnings
// only otherwise.
func initLogger() *slog.Logger {
	if verbose {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	if quiet {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// printNotifier renders store notifications on the terminal.
type printNotifier struct{}

func (printNotifier) Success(msg string) {
	if !quiet {
		fmt.Printf("%s✓ %s%s\n", colorGreen, msg, colorReset)
	}
}

func (printNotifier) Error(msg string) {
	fmt.Fprintf(os.Stderr, "%s✗ %s%s\n", colorRed, msg, colorReset)
}

// addCommonFlags registers the flags shared by every command.
func addCommonFlags(fs *flag.FlagSet) {
	fs.BoolVar(&quiet, "q", false, "Quiet mode - minimal output")
	fs.BoolVar(&noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&verbose, "v", false, "Verbose - debug logging to stderr")
}

// setup parses flags and wires the app, exiting on failure.
func setup(fs *flag.FlagSet, args []string) (*app, context.Context) {
	addCommonFlags(fs)
	fs.Parse(args)
	if noColor {
		disableColors()
	}

	// Per-request deadlines come from the HTTP client's timeout.
	ctx := context.Background()

	a, err := newApp(ctx)
	if err != nil {
		fatal("%v", err)
	}
	return a, ctx
}

// =============================================================================
// AUTH COMMANDS
// =============================================================================

func runLogin(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	var email, password string
	fs.StringVar(&email, "email", "", "Account email (required)")
	fs.StringVar(&password, "password", "", "Account password (required)")
	a, ctx := setup(fs, args)

	if email == "" || password == "" {
		fs.Usage()
		os.Exit(1)
	}

	requires2FA, err := a.auth.Login(ctx, email, password)
	if err != nil {
		fatal("Login failed: %s", model.UserMessage(err, "please try again"))
	}
	if requires2FA {
		printWarning("Two-factor code required. Run: perdecim verify-2fa -code CODE")
		return
	}

	printSuccess("Signed in")
	if u := a.auth.CurrentUser(); u != nil && !quiet {
		fmt.Printf("  Account: %s%s%s\n", colorCyan, u.Email, colorReset)
	}
}

func runRegister(args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	var name, email, password string
	fs.StringVar(&name, "name", "", "Full name (required)")
	fs.StringVar(&email, "email", "", "Account email (required)")
	fs.StringVar(&password, "password", "", "Account password (required)")
	a, ctx := setup(fs, args)

	if name == "" || email == "" || password == "" {
		fs.Usage()
		os.Exit(1)
	}

	if err := a.auth.Register(ctx, name, email, password); err != nil {
		fatal("Registration failed: %s", model.UserMessage(err, "please try again"))
	}
	printSuccess("Account created and signed in")
}

func runVerify2FA(args []string) {
	fs := flag.NewFlagSet("verify-2fa", flag.ExitOnError)
	var code string
	fs.StringVar(&code, "code", "", "Verification code (required)")
	a, ctx := setup(fs, args)

	if code == "" {
		fs.Usage()
		os.Exit(1)
	}

	if err := a.auth.Verify2FA(ctx, code); err != nil {
		fatal("Verification failed: %s", model.UserMessage(err, "please try again"))
	}
	printSuccess("Signed in")
}

func runLogout(args []string) {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	a, _ := setup(fs, args)

	a.auth.Logout()
	printSuccess("Signed out (guest cart kept)")
}

func runWhoami(args []string) {
	fs := flag.NewFlagSet("whoami", flag.ExitOnError)
	a, ctx := setup(fs, args)

	if !a.auth.IsAuthenticated() {
		if sid := a.creds.SessionID(); sid != "" {
			fmt.Printf("Guest session %s%s%s\n", colorCyan, sid, colorReset)
		} else {
			fmt.Println("Not signed in")
		}
		return
	}

	user, err := a.client.Me(ctx)
	if err != nil {
		fatal("Could not load account: %s", model.UserMessage(err, "please try again"))
	}
	if quiet {
		fmt.Println(user.Email)
		return
	}

	fmt.Printf("%s%s%s <%s>\n", colorBold, user.Name, colorReset, user.Email)
	if expiry, err := a.creds.AccessTokenExpiry(); err == nil {
		fmt.Printf("  %sAccess token expires %s%s\n", colorGray, expiry.Format(time.RFC3339), colorReset)
	}
}

// =============================================================================
// CART COMMANDS
// =============================================================================

func runCart(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: perdecim cart <show|add|update|rm|clear|merge> [options]\n")
		os.Exit(1)
	}

	sub := args[0]
	rest := args[1:]

	switch sub {
	case "show":
		runCartShow(rest)
	case "add":
		runCartAdd(rest)
	case "update":
		runCartUpdate(rest)
	case "rm":
		runCartRemove(rest)
	case "clear":
		runCartClear(rest)
	case "merge":
		runCartMerge(rest)
	default:
		fmt.Fprintf(os.Stderr, "Unknown cart subcommand: %s\n", sub)
		os.Exit(1)
	}
}

func runCartShow(args []string) {
	fs := flag.NewFlagSet("cart show", flag.ExitOnError)
	a, ctx := setup(fs, args)

	cart, err := a.client.GetCart(ctx)
	if err != nil {
		fatal("Could not load the cart: %s", model.UserMessage(err, "please try again"))
	}
	printCart(cart)
}

func runCartAdd(args []string) {
	fs := flag.NewFlagSet("cart add", flag.ExitOnError)
	var productID, variantID string
	var quantity int
	fs.StringVar(&productID, "product", "", "Product ID (required)")
	fs.StringVar(&variantID, "variant", "", "Variant ID")
	fs.IntVar(&quantity, "qty", 1, "Quantity")
	a, ctx := setup(fs, args)

	if productID == "" {
		fs.Usage()
		os.Exit(1)
	}

	a.cart.Add(ctx, productID, variantID, quantity)
	snap := a.cart.Snapshot()
	if snap.ItemCount > 0 {
		printSuccess("Added to cart")
		printCart(&snap)
	}
}

func runCartUpdate(args []string) {
	fs := flag.NewFlagSet("cart update", flag.ExitOnError)
	var itemID string
	var quantity int
	fs.StringVar(&itemID, "item", "", "Cart line ID (required)")
	fs.IntVar(&quantity, "qty", 0, "New quantity (required, positive)")
	a, ctx := setup(fs, args)

	if itemID == "" || quantity <= 0 {
		fs.Usage()
		os.Exit(1)
	}

	a.cart.UpdateItem(ctx, itemID, quantity)
	snap := a.cart.Snapshot()
	printCart(&snap)
}

func runCartRemove(args []string) {
	fs := flag.NewFlagSet("cart rm", flag.ExitOnError)
	var itemID string
	fs.StringVar(&itemID, "item", "", "Cart line ID (required)")
	a, ctx := setup(fs, args)

	if itemID == "" {
		fs.Usage()
		os.Exit(1)
	}

	a.cart.Remove(ctx, itemID)
	snap := a.cart.Snapshot()
	printCart(&snap)
}

func runCartClear(args []string) {
	fs := flag.NewFlagSet("cart clear", flag.ExitOnError)
	a, ctx := setup(fs, args)

	a.cart.Clear(ctx)
	printSuccess("Cart cleared")
}

func runCartMerge(args []string) {
	fs := flag.NewFlagSet("cart merge", flag.ExitOnError)
	a, ctx := setup(fs, args)

	if err := a.client.MergeCart(ctx); err != nil {
		fatal("Merge failed: %s", model.UserMessage(err, "please try again"))
	}
	a.cart.Fetch(ctx)
	printSuccess("Guest cart merged")
	snap := a.cart.Snapshot()
	printCart(&snap)
}

func printCart(cart *model.Cart) {
	if quiet {
		fmt.Println(cart.ItemCount)
		return
	}
	if len(cart.Items) == 0 {
		fmt.Println("Cart is empty")
		return
	}

	for _, item := range cart.Items {
		name := item.Name
		if name == "" {
			name = item.ProductID
		}
		fmt.Printf("  %s%-10s%s %s×%d%s  %s  %s\n",
			colorCyan, item.ID, colorReset,
			colorBold, item.Quantity, colorReset,
			name,
			model.FormatMinorUnits(item.LineTotal, cart.Currency))
	}
	fmt.Printf("  %sItems: %d  Subtotal: %s%s\n",
		colorGray, cart.ItemCount,
		model.FormatMinorUnits(cart.Subtotal, cart.Currency), colorReset)
}

// =============================================================================
// CATALOG COMMANDS
// =============================================================================

func runProducts(args []string) {
	fs := flag.NewFlagSet("products", flag.ExitOnError)
	var search, category, id string
	var page int
	fs.StringVar(&search, "search", "", "Free-text search query")
	fs.StringVar(&category, "category", "", "Category ID filter")
	fs.StringVar(&id, "id", "", "Show a single product")
	fs.IntVar(&page, "page", 1, "Result page")
	a, ctx := setup(fs, args)

	if id != "" {
		product, err := a.client.GetProduct(ctx, id)
		if err != nil {
			fatal("Could not load product: %s", model.UserMessage(err, "please try again"))
		}
		printProduct(product)
		return
	}

	result, err := a.client.ListProducts(ctx, model.ProductQuery{
		Search:     search,
		CategoryID: category,
		Page:       page,
	})
	if err != nil {
		fatal("Search failed: %s", model.UserMessage(err, "please try again"))
	}

	for _, p := range result.Products {
		stock := ""
		if !p.InStock {
			stock = colorRed + " (out of stock)" + colorReset
		}
		fmt.Printf("  %s%-12s%s %s  %s%s\n",
			colorCyan, p.ID, colorReset, p.Name,
			model.FormatMinorUnits(p.EffectivePrice(), p.Currency), stock)
	}
	if !quiet {
		fmt.Printf("  %sPage %d of %d (%d products)%s\n",
			colorGray, result.Page, result.TotalPages, result.Total, colorReset)
	}
}

func printProduct(p *model.Product) {
	fmt.Printf("%s%s%s  %s\n", colorBold, p.Name, colorReset,
		model.FormatMinorUnits(p.EffectivePrice(), p.Currency))
	if p.Description != "" {
		fmt.Printf("  %s\n", p.Description)
	}
	for _, v := range p.Variants {
		price := v.Price
		if price == 0 {
			price = p.Price
		}
		fmt.Printf("  %s%-12s%s %s  %s\n", colorCyan, v.ID, colorReset,
			v.Label, model.FormatMinorUnits(price, p.Currency))
	}
}

func runCategories(args []string) {
	fs := flag.NewFlagSet("categories", flag.ExitOnError)
	a, ctx := setup(fs, args)

	categories, err := a.client.ListCategories(ctx)
	if err != nil {
		fatal("Could not load categories: %s", model.UserMessage(err, "please try again"))
	}
	for _, c := range categories {
		fmt.Printf("  %s%-12s%s %s\n", colorCyan, c.ID, colorReset, c.Name)
	}
}

// =============================================================================
// CHECKOUT COMMANDS
// =============================================================================

func runCoupon(args []string) {
	fs := flag.NewFlagSet("coupon", flag.ExitOnError)
	var code string
	fs.StringVar(&code, "code", "", "Discount code (required)")
	a, ctx := setup(fs, args)

	if code == "" {
		fs.Usage()
		os.Exit(1)
	}

	coupon, err := a.client.ValidateCoupon(ctx, code)
	if err != nil {
		fatal("%s", model.UserMessage(err, "invalid coupon code"))
	}

	printSuccess("Coupon valid")
	if coupon.Percent > 0 {
		fmt.Printf("  %s: %d%% off\n", coupon.Code, coupon.Percent)
	} else {
		fmt.Printf("  %s: %s off\n", coupon.Code, model.FormatMinorUnits(coupon.Amount, ""))
	}
}

func runAddresses(args []string) {
	fs := flag.NewFlagSet("addresses", flag.ExitOnError)
	a, ctx := setup(fs, args)

	addresses, err := a.client.ListAddresses(ctx)
	if err != nil {
		fatal("Could not load addresses: %s", model.UserMessage(err, "please try again"))
	}
	if len(addresses) == 0 {
		fmt.Println("No saved addresses")
		return
	}
	for _, addr := range addresses {
		fmt.Printf("  %s%-12s%s %s, %s, %s\n",
			colorCyan, addr.ID, colorReset, addr.FullName, addr.Line1, addr.City)
	}
}

func runOrder(args []string) {
	fs := flag.NewFlagSet("order", flag.ExitOnError)
	var addressID, coupon, payment string
	fs.StringVar(&addressID, "address", "", "Delivery address ID (required)")
	fs.StringVar(&coupon, "coupon", "", "Discount code")
	fs.StringVar(&payment, "payment", "", "Payment method (required)")
	a, ctx := setup(fs, args)

	if addressID == "" || payment == "" {
		fs.Usage()
		os.Exit(1)
	}

	order, err := a.client.CreateOrder(ctx, model.CreateOrderRequest{
		AddressID:     addressID,
		CouponCode:    coupon,
		PaymentMethod: payment,
	})
	if err != nil {
		fatal("Order failed: %s", model.UserMessage(err, "please try again"))
	}

	// The server empties the cart when the order is placed.
	a.cart.Fetch(ctx)

	if quiet {
		fmt.Println(order.ID)
		return
	}
	printSuccess("Order placed")
	fmt.Printf("  ID: %s%s%s\n", colorCyan, order.ID, colorReset)
	fmt.Printf("  Total: %s%s%s\n", colorGreen,
		model.FormatMinorUnits(order.Total, order.Currency), colorReset)
}

func runOrders(args []string) {
	fs := flag.NewFlagSet("orders", flag.ExitOnError)
	var id string
	fs.StringVar(&id, "id", "", "Show a single order")
	a, ctx := setup(fs, args)

	if id != "" {
		order, err := a.client.GetOrder(ctx, id)
		if err != nil {
			fatal("Could not load order: %s", model.UserMessage(err, "please try again"))
		}
		printOrder(order)
		return
	}

	orders, err := a.client.ListOrders(ctx)
	if err != nil {
		fatal("Could not load orders: %s", model.UserMessage(err, "please try again"))
	}
	if len(orders) == 0 {
		fmt.Println("No orders")
		return
	}
	for _, o := range orders {
		fmt.Printf("  %s%-12s%s %-12s %s  %s\n",
			colorCyan, o.ID, colorReset, o.Status,
			o.CreatedAt.Format("2006-01-02"),
			model.FormatMinorUnits(o.Total, o.Currency))
	}
}

func printOrder(o *model.Order) {
	fmt.Printf("%sOrder %s%s  %s\n", colorBold, o.ID, colorReset, o.Status)
	for _, item := range o.Items {
		fmt.Printf("  ×%d %s  %s\n", item.Quantity, item.Name,
			model.FormatMinorUnits(item.LineTotal, o.Currency))
	}
	if o.Discount > 0 {
		fmt.Printf("  Discount: -%s\n", model.FormatMinorUnits(o.Discount, o.Currency))
	}
	fmt.Printf("  Total: %s%s%s\n", colorGreen,
		model.FormatMinorUnits(o.Total, o.Currency), colorReset)
}

// =============================================================================
// COMPARE COMMANDS
// =============================================================================

func runCompare(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: perdecim compare <show|add|rm|clear> [options]\n")
		os.Exit(1)
	}

	sub := args[0]
	rest := args[1:]

	switch sub {
	case "show":
		runCompareShow(rest)
	case "add":
		runCompareAdd(rest)
	case "rm":
		runCompareRemove(rest)
	case "clear":
		runCompareClear(rest)
	default:
		fmt.Fprintf(os.Stderr, "Unknown compare subcommand: %s\n", sub)
		os.Exit(1)
	}
}

func runCompareShow(args []string) {
	fs := flag.NewFlagSet("compare show", flag.ExitOnError)
	a, _ := setup(fs, args)

	items := a.compare.Items()
	if len(items) == 0 {
		fmt.Println("Comparison list is empty")
		return
	}
	for _, item := range items {
		fmt.Printf("  %s%-12s%s %s  %s\n",
			colorCyan, item.ProductID, colorReset, item.Name,
			model.FormatMinorUnits(item.Price, ""))
	}
}

func runCompareAdd(args []string) {
	fs := flag.NewFlagSet("compare add", flag.ExitOnError)
	var productID string
	fs.StringVar(&productID, "product", "", "Product ID (required)")
	a, ctx := setup(fs, args)

	if productID == "" {
		fs.Usage()
		os.Exit(1)
	}

	// Snapshot the product so the compare page renders offline.
	product, err := a.client.GetProduct(ctx, productID)
	if err != nil {
		fatal("Could not load product: %s", model.UserMessage(err, "please try again"))
	}

	a.compare.Add(model.CompareItem{
		ProductID: product.ID,
		Name:      product.Name,
		ImageURL:  product.ImageURL,
		Price:     product.EffectivePrice(),
	})
}

func runCompareRemove(args []string) {
	fs := flag.NewFlagSet("compare rm", flag.ExitOnError)
	var productID string
	fs.StringVar(&productID, "product", "", "Product ID (required)")
	a, _ := setup(fs, args)

	if productID == "" {
		fs.Usage()
		os.Exit(1)
	}

	a.compare.Remove(productID)
	printSuccess("Removed from comparison")
}

func runCompareClear(args []string) {
	fs := flag.NewFlagSet("compare clear", flag.ExitOnError)
	a, _ := setup(fs, args)

	a.compare.Clear()
	printSuccess("Comparison list cleared")
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

func printSuccess(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf("%s✓ %s%s\n", colorGreen, fmt.Sprintf(format, args...), colorReset)
	}
}

func printWarning(format string, args ...interface{}) {
	fmt.Printf("%s⚠ %s%s\n", colorYellow, fmt.Sprintf(format, args...), colorReset)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s✗ %s%s\n", colorRed, fmt.Sprintf(format, args...), colorReset)
	os.Exit(1)
}
