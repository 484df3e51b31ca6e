package panel

import (
	"time"

	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/contract"
	"github.com/tranvictor/provenance/ui"
)

var productHeaders = []string{"ID", "Serial", "Model", "Manufacturer", "Warranty", "Expires", "Days left", "Claims"}

func warrantyStatus(u ui.UI, p contract.Product) string {
	switch {
	case !p.Sold():
		return u.Style(ui.Pending(pcommon.NotActivated))
	case p.IsWarrantyActive:
		return u.Style(ui.Good("Active"))
	default:
		return u.Style(ui.Bad("Expired"))
	}
}

func productRow(u ui.UI, p contract.Product, now time.Time) []string {
	expiration := pcommon.DisplayUint(p.WarrantyExpiration)
	return []string{
		p.TokenID.String(),
		p.SerialNumber,
		p.Model,
		pcommon.FormatAddress(p.Manufacturer.Hex()),
		warrantyStatus(u, p),
		pcommon.FormatTimestamp(expiration),
		pcommon.StringFromUint(pcommon.DaysRemaining(expiration, now)),
		pcommon.StringFromUint(pcommon.DisplayUint(p.WarrantyClaimCount)) + "/" +
			pcommon.StringFromUint(pcommon.DisplayUint(p.WarrantyClaimLimit)),
	}
}

func showProducts(u ui.UI, products []contract.Product, now time.Time) {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, productRow(u, p, now))
	}
	u.Table(productHeaders, rows)
}

// showProduct prints every field of p.
func showProduct(u ui.UI, p contract.Product, now time.Time) {
	expiration := pcommon.DisplayUint(p.WarrantyExpiration)
	u.KeyValue([][2]string{
		{"Product ID", p.TokenID.String()},
		{"Serial number", p.SerialNumber},
		{"Model", p.Model},
		{"Manufacturer", p.Manufacturer.Hex()},
		{"Manufactured", pcommon.FormatTimestamp(pcommon.DisplayUint(p.ManufactureTimestamp))},
		{"Warranty duration", pcommon.FormatDuration(pcommon.DisplayUint(p.WarrantyDuration))},
		{"Warranty status", warrantyStatus(u, p)},
		{"Warranty start", pcommon.FormatTimestamp(pcommon.DisplayUint(p.WarrantyStart))},
		{"Warranty expiration", pcommon.FormatTimestamp(expiration)},
		{"Days remaining", pcommon.StringFromUint(pcommon.DaysRemaining(expiration, now))},
		{"Claims used", pcommon.StringFromUint(pcommon.DisplayUint(p.WarrantyClaimCount)) + " of " +
			pcommon.StringFromUint(pcommon.DisplayUint(p.WarrantyClaimLimit))},
	})
}
