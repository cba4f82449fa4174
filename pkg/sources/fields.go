package sources

// Storefront exports disagree on field names. Each table lists the candidate
// paths for one logical field in priority order; the first non-empty value
// wins. Paths are gjson paths evaluated against the record and then against
// its nested metadata object.
var (
	NameFields        = []string{"name", "app_title", "title", "app_name"}
	URLFields         = []string{"store_link", "storeLink", "store_url", "storeUrl", "url", "link", "homepage"}
	SteamIDFields     = []string{"appid", "appId", "app_id", "steam_appid"}
	EpicIDFields      = []string{"id", "catalogItemId"}
	DescriptionFields = []string{"description", "short_description", "shortDescription", "summary"}
	ReleaseDateFields = []string{"releaseDate", "release_date.date", "release_date", "effectiveDate"}
	DeveloperFields   = []string{"developer", "developers", "developerDisplayName"}
	PublisherFields   = []string{"publisher", "publishers", "publisherDisplayName"}
	GenreFields       = []string{"genre", "genres"}
	PlatformFields    = []string{"platforms", "platform"}
	TagFields         = []string{"tags", "categories"}
	ImageFields       = []string{"imageUrl", "image_url", "image", "header_image", "cover"}
	KeyImageFields    = []string{"keyImages"}
)

// NestedObject is the key under which some exports (Epic) keep most fields.
const NestedObject = "metadata"

// listItemFields names the keys read from object elements of a list field,
// e.g. Steam's genres: [{"id": "1", "description": "Action"}].
var listItemFields = []string{"description", "name", "value", "path"}

// BoxArtImageType is the keyed image variant preferred as the image hint.
const BoxArtImageType = "DieselGameBox"
