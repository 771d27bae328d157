package features

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/cucumber/godog"
	"github.com/fekuna/omnipos-bar-service/internal/apperr"
	"github.com/fekuna/omnipos-bar-service/internal/bartest"
	deliveryDto "github.com/fekuna/omnipos-bar-service/internal/delivery/dto"
	inventoryDto "github.com/fekuna/omnipos-bar-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-bar-service/internal/model"
	orderDto "github.com/fekuna/omnipos-bar-service/internal/order/dto"
)

type barTestContext struct {
	world    *bartest.World
	products map[string]string
	recipes  map[string][]model.RecipeLine
	order    *model.Order
	err      error
}

func (c *barTestContext) reset() {
	c.world = nil
	c.products = map[string]string{}
	c.recipes = map[string][]model.RecipeLine{}
	c.order = nil
	c.err = nil
}

func (c *barTestContext) product(code string) (string, error) {
	id, ok := c.products[code]
	if !ok {
		return "", fmt.Errorf("unknown product %q", code)
	}
	return id, nil
}

func (c *barTestContext) aBarWithStockEnforcementOn() error {
	c.world = bartest.New(true)
	return nil
}

func (c *barTestContext) aBaseProductWithUnitsInStock(code string, qty int) error {
	id := c.world.AddProduct(code, code, model.KindBase, "0")
	c.world.Store.SetStock(id, bartest.LocationID, qty, 0)
	c.products[code] = id
	return nil
}

func (c *barTestContext) aSimpleProductPricedWithUnitsInStock(code, price string, qty int) error {
	id := c.world.AddProduct(code, code, model.KindSimple, price)
	c.world.Store.SetStock(id, bartest.LocationID, qty, 0)
	c.products[code] = id
	return nil
}

func (c *barTestContext) aCompositeProductPriced(code, price string) error {
	c.products[code] = c.world.AddProduct(code, code, model.KindComposite, price)
	return nil
}

func (c *barTestContext) addRecipeLine(code string, line model.RecipeLine) error {
	id, err := c.product(code)
	if err != nil {
		return err
	}
	c.recipes[code] = append(c.recipes[code], line)
	c.world.Store.SetRecipe(id, slices.Clone(c.recipes[code])...)
	return nil
}

func (c *barTestContext) requires(code string, qty int, component string) error {
	componentID, err := c.product(component)
	if err != nil {
		return err
	}
	return c.addRecipeLine(code, bartest.Mandatory(componentID, qty))
}

func (c *barTestContext) offersInOptionGroup(code string, qty int, component, group string) error {
	componentID, err := c.product(component)
	if err != nil {
		return err
	}
	return c.addRecipeLine(code, bartest.Choice(componentID, group, qty))
}

func (c *barTestContext) sell(code string, qty int, method string, options map[string]string) error {
	id, err := c.product(code)
	if err != nil {
		return err
	}
	res, err := c.world.Orders.CreateOrder(context.Background(), &orderDto.CreateOrderInput{
		EventID:       bartest.EventID,
		RegisterID:    bartest.RegisterID,
		CashierID:     "cashier-1",
		PaymentMethod: model.PaymentMethod(method),
		Lines:         []orderDto.LineInput{{ProductID: id, Quantity: qty, Options: options}},
	})
	c.err = err
	if err == nil {
		c.order = res.Order
	}
	return nil
}

func (c *barTestContext) theCashierSellsPaidBy(qty int, code, method string) error {
	return c.sell(code, qty, method, nil)
}

func (c *barTestContext) theCashierSellsPaidByChoosingFor(qty int, code, method, option, group string) error {
	return c.sell(code, qty, method, map[string]string{group: option})
}

func (c *barTestContext) theOrderIsCreated() error {
	if c.err != nil {
		return fmt.Errorf("expected order but got error: %v", c.err)
	}
	if c.order == nil {
		return errors.New("no order was created")
	}
	return nil
}

func (c *barTestContext) failsWith(code string) error {
	if c.err == nil {
		return fmt.Errorf("expected %s error but the call succeeded", code)
	}
	if !apperr.HasCode(c.err, code) {
		return fmt.Errorf("expected %s error, got %v", code, c.err)
	}
	return nil
}

func (c *barTestContext) succeeds() error {
	if c.err != nil {
		return fmt.Errorf("expected success but got error: %v", c.err)
	}
	return nil
}

func (c *barTestContext) hasUnitsOnHandAndReserved(code string, quantity, reserved int) error {
	id, err := c.product(code)
	if err != nil {
		return err
	}
	q, r := c.world.Stock(id)
	if q != quantity || r != reserved {
		return fmt.Errorf("%s: expected quantity=%d reserved=%d, got quantity=%d reserved=%d", code, quantity, reserved, q, r)
	}
	return nil
}

func (c *barTestContext) ledgerInput(code string, qty int) (*inventoryDto.LedgerInput, error) {
	id, err := c.product(code)
	if err != nil {
		return nil, err
	}
	return &inventoryDto.LedgerInput{ProductID: id, ProductName: code, LocationID: bartest.LocationID, Quantity: qty, UserID: "stock-1"}, nil
}

func (c *barTestContext) unitsAreReserved(qty int, code string) error {
	in, err := c.ledgerInput(code, qty)
	if err != nil {
		return err
	}
	c.err = c.world.Ledger.Reserve(context.Background(), in)
	return nil
}

func (c *barTestContext) unitsAreCommitted(qty int, code string) error {
	in, err := c.ledgerInput(code, qty)
	if err != nil {
		return err
	}
	c.err = c.world.Ledger.Commit(context.Background(), in)
	return nil
}

func (c *barTestContext) theBartenderDeliversTheWholeOrder() error {
	if c.order == nil {
		return errors.New("no order to deliver")
	}
	c.order = c.world.Store.Order(c.order.ID)
	items := make([]deliveryDto.ItemInput, len(c.order.Lines))
	for i, l := range c.order.Lines {
		items[i] = deliveryDto.ItemInput{LineID: l.ID, Quantity: l.Quantity - l.Delivered}
	}
	res, err := c.world.Deliveries.RecordDelivery(context.Background(), &deliveryDto.RecordInput{
		OrderToken:  c.order.AccessToken,
		BarID:       bartest.BarID,
		BartenderID: "bartender-1",
		Items:       items,
	})
	c.err = err
	if err == nil {
		c.order = res.Order
	}
	return nil
}

func (c *barTestContext) anAdminApprovesThePayment() error {
	o, err := c.world.Payments.ReviewPayment(context.Background(), &orderDto.ReviewInput{
		OrderID:    c.order.ID,
		Approve:    true,
		ReviewerID: "admin-1",
	})
	if err != nil {
		return fmt.Errorf("approve payment: %w", err)
	}
	c.order = o
	return nil
}

func (c *barTestContext) thePaymentStatusIs(status string) error {
	if got := string(c.world.Store.Order(c.order.ID).PaymentStatus); got != status {
		return fmt.Errorf("expected payment status %s, got %s", status, got)
	}
	return nil
}

func (c *barTestContext) theFulfillmentStatusIs(status string) error {
	if got := string(c.world.Store.Order(c.order.ID).FulfillmentStatus); got != status {
		return fmt.Errorf("expected fulfillment status %s, got %s", status, got)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &barTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a bar with stock enforcement on$`, tc.aBarWithStockEnforcementOn)
	ctx.Step(`^a base product "([^"]*)" with (\d+) units in stock$`, tc.aBaseProductWithUnitsInStock)
	ctx.Step(`^a simple product "([^"]*)" priced "([^"]*)" with (\d+) units in stock$`, tc.aSimpleProductPricedWithUnitsInStock)
	ctx.Step(`^a composite product "([^"]*)" priced "([^"]*)"$`, tc.aCompositeProductPriced)
	ctx.Step(`^"([^"]*)" requires (\d+) "([^"]*)"$`, tc.requires)
	ctx.Step(`^"([^"]*)" offers (\d+) "([^"]*)" in option group "([^"]*)"$`, tc.offersInOptionGroup)

	// When steps
	ctx.Step(`^the cashier sells (\d+) "([^"]*)" paid by "([^"]*)"$`, tc.theCashierSellsPaidBy)
	ctx.Step(`^the cashier sells (\d+) "([^"]*)" paid by "([^"]*)" choosing "([^"]*)" for "([^"]*)"$`, tc.theCashierSellsPaidByChoosingFor)
	ctx.Step(`^(\d+) units of "([^"]*)" are reserved$`, tc.unitsAreReserved)
	ctx.Step(`^(\d+) units of "([^"]*)" are committed$`, tc.unitsAreCommitted)
	ctx.Step(`^the bartender delivers the whole order$`, tc.theBartenderDeliversTheWholeOrder)
	ctx.Step(`^an admin approves the payment$`, tc.anAdminApprovesThePayment)

	// Then steps
	ctx.Step(`^the order is created$`, tc.theOrderIsCreated)
	ctx.Step(`^the order fails with "([^"]*)"$`, tc.failsWith)
	ctx.Step(`^the stock operation succeeds$`, tc.succeeds)
	ctx.Step(`^the stock operation fails with "([^"]*)"$`, tc.failsWith)
	ctx.Step(`^the delivery succeeds$`, tc.succeeds)
	ctx.Step(`^the delivery fails with "([^"]*)"$`, tc.failsWith)
	ctx.Step(`^"([^"]*)" has (\d+) units on hand and (\d+) reserved$`, tc.hasUnitsOnHandAndReserved)
	ctx.Step(`^the payment status is "([^"]*)"$`, tc.thePaymentStatusIs)
	ctx.Step(`^the fulfillment status is "([^"]*)"$`, tc.theFulfillmentStatusIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
