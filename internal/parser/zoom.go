package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maltedev/zoom-price-scraper/internal/models"
)

type ZoomParser struct{}

func NewZoomParser() *ZoomParser {
	return &ZoomParser{}
}

// ParseSearchPage extracts one summary per listing card. Cards without a
// name element are skipped.
func (p *ZoomParser) ParseSearchPage(html string) ([]models.ProductSummary, error) {
	doc, err := newDocument(html)
	if err != nil {
		return nil, err
	}

	var products []models.ProductSummary
	doc.Find(searchCardSelector).Each(func(i int, card *goquery.Selection) {
		if product, ok := p.parseCard(card); ok {
			products = append(products, product)
		}
	})

	return products, nil
}

func (p *ZoomParser) parseCard(card *goquery.Selection) (models.ProductSummary, bool) {
	nameEl := card.Find(searchNameSelector).First()
	if nameEl.Length() == 0 {
		return models.ProductSummary{}, false
	}

	id, _ := nameEl.Attr("id")
	product := models.ProductSummary{
		ID:           cardID(id),
		Name:         strings.ReplaceAll(strings.TrimSpace(nameEl.Text()), `\`, ""),
		Description:  TextPtr(card, searchMerchantSelector),
		Installments: TextPtr(card, searchInstallmentSelector),
		Ratings:      TextPtr(card, searchRatingSelector),
		ImageURL:     AttrPtr(card, searchImageSelector, "src"),
		DetailURL:    AttrPtr(card, searchLinkSelector, "href"),
	}

	if priceText, ok := Text(card, searchPriceSelector); ok {
		product.Price = ParseListingPrice(priceText)
	}

	return product, true
}

// cardID turns "product-card-12345::0" into "12345".
func cardID(anchorID string) string {
	id, _, _ := strings.Cut(anchorID, cardIDSeparator)
	return strings.ReplaceAll(id, cardIDPrefix, "")
}

// ParseDetails reads the structured attribute blocks, falling back to the
// simplified description section when the blocks container is missing. It
// returns nil when neither produced an entry.
func (p *ZoomParser) ParseDetails(html string) (models.ProductDetails, error) {
	doc, err := newDocument(html)
	if err != nil {
		return nil, err
	}

	details := make(models.ProductDetails)

	container := doc.Find(detailsContainerSelector).First()
	if container.Length() > 0 {
		container.Find(detailsBlockSelector).Each(func(i int, block *goquery.Selection) {
			p.parseAttributeBlock(block, details)
		})
	} else if section := doc.Find(simplifiedSectionSelector).First(); section.Length() > 0 {
		if text, ok := Text(section, simplifiedDescriptionSelector); ok {
			details[DescriptionGroup] = models.NewTextGroup(text)
		}
	}

	if len(details) == 0 {
		return nil, nil
	}
	return details, nil
}

func (p *ZoomParser) parseAttributeBlock(block *goquery.Selection, details models.ProductDetails) {
	groupName := OtherGroup
	if title, ok := Text(block, detailsGroupTitleSelector); ok {
		groupName = title
	}

	group, exists := details[groupName]
	if !exists {
		group = models.NewAttributeGroup()
		details[groupName] = group
	}

	if groupName == DescriptionGroup {
		if text, ok := Text(block, detailsDescriptionSelector); ok {
			details[groupName] = models.NewTextGroup(text)
		}
		return
	}

	if group.IsText() {
		return
	}

	block.Find(detailsRowSelector).Each(func(i int, row *goquery.Selection) {
		name, okName := Text(row, detailsRowNameSelector)
		value, okValue := Text(row, detailsRowValueSelector)
		if okName && okValue {
			group.Attributes[name] = value
		}
	})
}

// ParseOffers returns the offer cards in page order. Each card's price is
// parsed from that card alone.
func (p *ZoomParser) ParseOffers(html string) ([]models.Offer, error) {
	doc, err := newDocument(html)
	if err != nil {
		return nil, err
	}

	offers := []models.Offer{}
	doc.Find(offerCardSelector).Each(func(i int, card *goquery.Selection) {
		offers = append(offers, parseOfferCard(card))
	})

	return offers, nil
}

func parseOfferCard(card *goquery.Selection) models.Offer {
	offer := models.Offer{
		StoreName:    TextPtr(card, offerMerchantSelector),
		PurchaseLink: AttrPtr(card, offerLinkSelector, "href"),
	}
	if priceText, ok := Text(card, offerPriceSelector); ok {
		offer.Price = ParseOfferPrice(priceText)
	}
	return offer
}
