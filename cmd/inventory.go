package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"freightdesk/internal/bootstrap"
	"freightdesk/internal/domain/inventory"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Warehouse inventory items",
}

var inventoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List inventory items",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		locationID, _ := cmd.Flags().GetInt64("location")
		skip, _ := cmd.Flags().GetInt("skip")
		limit, _ := cmd.Flags().GetInt("limit")

		items, err := svc.Billing.ListInventory(cmd.Context(), inventory.ListFilter{
			LocationID: locationID,
			Skip:       skip,
			Limit:      limit,
		})
		if err != nil {
			return err
		}
		return render(cmd, items, func() table { return inventoryTable(items) })
	}),
}

var inventoryCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an inventory item",
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		sku, _ := cmd.Flags().GetString("sku")
		name, _ := cmd.Flags().GetString("name")
		quantity, _ := cmd.Flags().GetInt("quantity")
		description, _ := cmd.Flags().GetString("description")

		item, err := svc.Billing.CreateInventoryItem(cmd.Context(), inventory.CreateRequest{
			SKU:         sku,
			Name:        name,
			Quantity:    quantity,
			LocationID:  optionalID(cmd, "location"),
			ShipmentID:  optionalID(cmd, "shipment"),
			Description: description,
		})
		if err != nil {
			return err
		}
		return render(cmd, item, func() table { return inventoryTable([]inventory.Item{item}) })
	}),
}

var inventoryRelocateCmd = &cobra.Command{
	Use:   "relocate <id>",
	Short: "Move an inventory item to another location",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, svc *bootstrap.Services) error {
		id, err := parseID(cmd.Flags().Arg(0), "item id")
		if err != nil {
			return err
		}
		locationID, _ := cmd.Flags().GetInt64("location")
		item, err := svc.Billing.RelocateInventoryItem(cmd.Context(), id, locationID)
		if err != nil {
			return err
		}
		return render(cmd, item, func() table { return inventoryTable([]inventory.Item{item}) })
	}),
}

func inventoryTable(items []inventory.Item) table {
	out := table{header: []string{"id", "sku", "name", "quantity", "location", "shipment"}}
	for _, item := range items {
		out.add(
			itoa(item.ID),
			item.SKU,
			item.Name,
			strconv.Itoa(item.Quantity),
			optionalText(item.LocationID),
			optionalText(item.ShipmentID),
		)
	}
	return out
}

func optionalText(value *int64) string {
	if value == nil {
		return "-"
	}
	return itoa(*value)
}

func init() {
	rootCmd.AddCommand(inventoryCmd)
	inventoryCmd.AddCommand(inventoryListCmd, inventoryCreateCmd, inventoryRelocateCmd)

	inventoryListCmd.Flags().Int64("location", 0, "Filter by location id")
	inventoryListCmd.Flags().Int("skip", 0, "Number of items to skip")
	inventoryListCmd.Flags().Int("limit", 50, "Maximum number of items")

	inventoryCreateCmd.Flags().String("sku", "", "Stock keeping unit")
	inventoryCreateCmd.Flags().String("name", "", "Item name")
	inventoryCreateCmd.Flags().Int("quantity", 0, "Quantity")
	inventoryCreateCmd.Flags().Int64("location", 0, "Location id")
	inventoryCreateCmd.Flags().Int64("shipment", 0, "Shipment id")
	inventoryCreateCmd.Flags().String("description", "", "Description")

	inventoryRelocateCmd.Flags().Int64("location", 0, "Target location id")
	_ = inventoryRelocateCmd.MarkFlagRequired("location")
}
