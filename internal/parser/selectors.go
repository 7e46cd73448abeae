package parser

// Selectors for the price-comparison site's markup. Class names carry the
// site's CSS-module hashes and change when the site is redeployed.
const (
	searchCardSelector        = ".Hits_ProductCard__Bonl_"
	searchNameSelector        = "h2.ProductCard_ProductCard_Name__U_mUQ"
	searchMerchantSelector    = "h3.ProductCard_ProductCard_BestMerchant__JQo_V"
	searchPriceSelector       = "p[data-testid='product-card::price']"
	searchInstallmentSelector = "span.ProductCard_ProductCard_Installment__XZEnD"
	searchRatingSelector      = "div[data-testid='product-card::rating']"
	searchImageSelector       = "img"
	searchLinkSelector        = "a"

	cardIDPrefix    = "product-card-"
	cardIDSeparator = "::"

	detailsContainerSelector   = "div[data-testid='detailsSection-masonry']"
	detailsBlockSelector       = "div.DetailsContent_AttributeBlock__lGim_"
	detailsGroupTitleSelector  = "h3.AttributeBlock_GroupTitle__XIqmq"
	detailsDescriptionSelector = "div.AttributeBlock_GroupContent__rKxrs p"
	detailsRowSelector         = "tr.Row_Row__kKYw6"
	detailsRowNameSelector     = "th.AttributeName_Key__JJU2r span"
	detailsRowValueSelector    = "td.AttributeValues_Value__iqjHN span"

	simplifiedSectionSelector     = "section.DetailsSection_DetailsSection__4RLSH"
	simplifiedDescriptionSelector = "div.DetailsContentSimplified_ContentSimplified__2Rszi p"

	offerCardSelector     = "div[data-testid='offer-card-wrapper']"
	offerPriceSelector    = "a[data-testid='offer-price'] .OfferPrice_InCash___m2LM"
	offerMerchantSelector = "a[data-testid='offer-merchant'] h3"
	offerLinkSelector     = "a[data-testid='offer-price']"
)

// Group labels as rendered on the site.
const (
	DescriptionGroup = "Descrição"
	OtherGroup       = "Outros"
)
