// Package format renders search results as deterministic, human-readable
// text blocks. Formatting is pure: same input, same bytes, and iteration
// order is always input order.
package format

import (
	"fmt"
	"strings"

	"github.com/tripstack/tripsearch/amadeus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Sentinel lines for empty-but-successful results. Callers detect
// no-results by content, not by an empty body.
const (
	NoFlightsFound = "No available flights found."
	NoHotelsFound  = "No available hotels found."
)

var titleCaser = cases.Title(language.English)

// Flights renders flight offers, enumerated 1-based in input order.
func Flights(offers []amadeus.FlightOffer) string {
	if len(offers) == 0 {
		return NoFlightsFound
	}

	var b strings.Builder
	for i, offer := range offers {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Option %d\n", i+1)
		fmt.Fprintf(&b, "Total Price: %s %s\n", offer.Price.Total, offer.Price.Currency)

		for legIdx, leg := range offer.Itineraries {
			label := "Departure"
			if legIdx > 0 {
				label = "Return"
			}
			fmt.Fprintf(&b, "%s:\n", label)
			for _, seg := range leg.Segments {
				fmt.Fprintf(&b, "  %s%s: %s -> %s (%s -> %s)\n",
					seg.CarrierCode, seg.Number,
					seg.Departure.IataCode, seg.Arrival.IataCode,
					seg.Departure.At, seg.Arrival.At)
			}
		}
	}

	return b.String()
}

// Hotels renders hotels with at least one room offer, in input order.
// Hotels with no offers never reach this function, but an empty input
// still yields the explicit sentinel.
func Hotels(hotels []amadeus.HotelOffers) string {
	if len(hotels) == 0 {
		return NoHotelsFound
	}

	var b strings.Builder
	for i, h := range hotels {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s (%s)\n", h.Hotel.Name, h.Hotel.CityCode)

		for _, offer := range h.Offers {
			fmt.Fprintf(&b, "  Check-in: %s, Check-out: %s\n", offer.CheckInDate, offer.CheckOutDate)
			fmt.Fprintf(&b, "  Total Price: %s %s\n", offer.Price.Total, offer.Price.Currency)

			room := humanize(offer.Room.TypeEstimated.Category)
			if room != "" {
				fmt.Fprintf(&b, "  Room: %s\n", room)
			}
			if offer.Room.TypeEstimated.Beds > 0 {
				fmt.Fprintf(&b, "  Beds: %d %s\n", offer.Room.TypeEstimated.Beds, humanize(offer.Room.TypeEstimated.BedType))
			}
			if desc := singleLine(offer.Room.Description.Text); desc != "" {
				fmt.Fprintf(&b, "  Description: %s\n", desc)
			}
		}
	}

	return b.String()
}

// humanize turns upstream enum-ish values like STANDARD_ROOM into
// "Standard Room".
func humanize(s string) string {
	return titleCaser.String(strings.ToLower(strings.ReplaceAll(s, "_", " ")))
}

// singleLine collapses embedded newlines and runs of whitespace.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
