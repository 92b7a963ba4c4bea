package xmp

// Toolkit is the default x:xmptk value written on x:xmpmeta.
const Toolkit = "xmp-go 1.0"

// Well-known namespace URIs.
const (
	NSXML = "http://www.w3.org/XML/1998/namespace"
	NSRDF = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSX   = "adobe:ns:meta/"
	NSIX  = "http://ns.adobe.com/iX/1.0/"

	NSDC = "http://purl.org/dc/elements/1.1/"
	// NSDCDeprecated is remapped to NSDC while parsing.
	NSDCDeprecated = "http://purl.org/dc/1.1/"

	NSXMP       = "http://ns.adobe.com/xap/1.0/"
	NSXMPRights = "http://ns.adobe.com/xap/1.0/rights/"
	NSXMPMM     = "http://ns.adobe.com/xap/1.0/mm/"
	NSXMPBJ     = "http://ns.adobe.com/xap/1.0/bj/"
	NSXMPNote   = "http://ns.adobe.com/xmp/note/"
	NSXMPDM     = "http://ns.adobe.com/xmp/1.0/DynamicMedia/"

	NSPDF       = "http://ns.adobe.com/pdf/1.3/"
	NSPDFX      = "http://ns.adobe.com/pdfx/1.3/"
	NSPhotoshop = "http://ns.adobe.com/photoshop/1.0/"
	NSAlbum     = "http://ns.adobe.com/album/1.0/"
	NSExif      = "http://ns.adobe.com/exif/1.0/"
	NSExifEX    = "http://cipa.jp/exif/1.0/"
	NSExifAux   = "http://ns.adobe.com/exif/1.0/aux/"
	NSTIFF      = "http://ns.adobe.com/tiff/1.0/"
	NSPNG       = "http://ns.adobe.com/png/1.0/"
	NSJPEG      = "http://ns.adobe.com/jpeg/1.0/"
	NSCameraRaw = "http://ns.adobe.com/camera-raw-settings/1.0/"
	NSLightroom = "http://ns.adobe.com/lightroom/1.0/"

	NSIPTCCore = "http://iptc.org/std/Iptc4xmpCore/1.0/xmlns/"
	NSIPTCExt  = "http://iptc.org/std/Iptc4xmpExt/2008-02-29/"
	NSPlus     = "http://ns.useplus.org/ldf/xmp/1.0/"
	NSDICOM    = "http://ns.adobe.com/DICOM/"
	NSMWGRS    = "http://www.metadataworkinggroup.com/schemas/regions/"
	NSACDSee   = "http://ns.acdsee.com/iptc/1.0/"
)

// Structure type namespaces used for fields of well-known structs.
const (
	TypeText           = "http://ns.adobe.com/xap/1.0/t/"
	TypePagedFile      = "http://ns.adobe.com/xap/1.0/t/pg/"
	TypeGraphics       = "http://ns.adobe.com/xap/1.0/g/"
	TypeImage          = "http://ns.adobe.com/xap/1.0/g/img/"
	TypeFont           = "http://ns.adobe.com/xap/1.0/sType/Font#"
	TypeDimensions     = "http://ns.adobe.com/xap/1.0/sType/Dimensions#"
	TypeArea           = "http://ns.adobe.com/xmp/sType/Area#"
	TypeResourceEvent  = "http://ns.adobe.com/xap/1.0/sType/ResourceEvent#"
	TypeResourceRef    = "http://ns.adobe.com/xap/1.0/sType/ResourceRef#"
	TypeVersion        = "http://ns.adobe.com/xap/1.0/sType/Version#"
	TypeJob            = "http://ns.adobe.com/xap/1.0/sType/Job#"
	TypeManifestItem   = "http://ns.adobe.com/xap/1.0/sType/ManifestItem#"
	TypeIdentifierQual = "http://ns.adobe.com/xmp/Identifier/qual/1.0/"
)

// XDefault is the xml:lang value of the default item of an alt-text array.
const XDefault = "x-default"

var standardNamespaces = []struct {
	uri    string
	prefix string
}{
	{NSXML, "xml"},
	{NSRDF, "rdf"},
	{NSX, "x"},
	{NSIX, "iX"},
	{NSDC, "dc"},
	{NSXMP, "xmp"},
	{NSXMPRights, "xmpRights"},
	{NSXMPMM, "xmpMM"},
	{NSXMPBJ, "xmpBJ"},
	{NSXMPNote, "xmpNote"},
	{NSXMPDM, "xmpDM"},
	{NSPDF, "pdf"},
	{NSPDFX, "pdfx"},
	{NSPhotoshop, "photoshop"},
	{NSAlbum, "album"},
	{NSExif, "exif"},
	{NSExifEX, "exifEX"},
	{NSExifAux, "aux"},
	{NSTIFF, "tiff"},
	{NSPNG, "png"},
	{NSJPEG, "jpeg"},
	{NSCameraRaw, "crs"},
	{NSLightroom, "lr"},
	{NSIPTCCore, "Iptc4xmpCore"},
	{NSIPTCExt, "Iptc4xmpExt"},
	{NSPlus, "plus"},
	{NSDICOM, "DICOM"},
	{NSMWGRS, "mwg-rs"},
	{NSACDSee, "acdsee"},
	{TypeText, "xmpT"},
	{TypePagedFile, "xmpTPg"},
	{TypeGraphics, "xmpG"},
	{TypeImage, "xmpGImg"},
	{TypeFont, "stFnt"},
	{TypeDimensions, "stDim"},
	{TypeArea, "stArea"},
	{TypeResourceEvent, "stEvt"},
	{TypeResourceRef, "stRef"},
	{TypeVersion, "stVer"},
	{TypeJob, "stJob"},
	{TypeManifestItem, "stMfs"},
	{TypeIdentifierQual, "xmpidq"},
}

var standardAliases = []struct {
	ns, name   string
	actualNS   string
	actualName string
	form       AliasForm
}{
	{NSXMP, "Author", NSDC, "creator", AliasSeqItem},
	{NSXMP, "Authors", NSDC, "creator", AliasSimple},
	{NSXMP, "Description", NSDC, "description", AliasSimple},
	{NSXMP, "Format", NSDC, "format", AliasSimple},
	{NSXMP, "Keywords", NSDC, "subject", AliasSimple},
	{NSXMP, "Locale", NSDC, "language", AliasSimple},
	{NSXMP, "Title", NSDC, "title", AliasSimple},
	{NSXMPRights, "Copyright", NSDC, "rights", AliasSimple},

	{NSPDF, "Author", NSDC, "creator", AliasSeqItem},
	{NSPDF, "BaseURL", NSXMP, "BaseURL", AliasSimple},
	{NSPDF, "CreationDate", NSXMP, "CreateDate", AliasSimple},
	{NSPDF, "Creator", NSXMP, "CreatorTool", AliasSimple},
	{NSPDF, "ModDate", NSXMP, "ModifyDate", AliasSimple},
	{NSPDF, "Subject", NSDC, "description", AliasAltText},
	{NSPDF, "Title", NSDC, "title", AliasAltText},

	{NSPhotoshop, "Author", NSDC, "creator", AliasSeqItem},
	{NSPhotoshop, "Caption", NSDC, "description", AliasAltText},
	{NSPhotoshop, "Copyright", NSDC, "rights", AliasAltText},
	{NSPhotoshop, "Keywords", NSDC, "subject", AliasSimple},
	{NSPhotoshop, "Marked", NSXMPRights, "Marked", AliasSimple},
	{NSPhotoshop, "Title", NSDC, "title", AliasAltText},
	{NSPhotoshop, "WebStatement", NSXMPRights, "WebStatement", AliasSimple},

	{NSTIFF, "Artist", NSDC, "creator", AliasSeqItem},
	{NSTIFF, "Copyright", NSDC, "rights", AliasSimple},
	{NSTIFF, "DateTime", NSXMP, "ModifyDate", AliasSimple},
	{NSTIFF, "ImageDescription", NSDC, "description", AliasSimple},
	{NSTIFF, "Software", NSXMP, "CreatorTool", AliasSimple},

	{NSExif, "DateTimeDigitized", NSXMP, "CreateDate", AliasSimple},

	{NSPNG, "Author", NSDC, "creator", AliasSeqItem},
	{NSPNG, "Copyright", NSDC, "rights", AliasAltText},
	{NSPNG, "CreationTime", NSXMP, "CreateDate", AliasSimple},
	{NSPNG, "Description", NSDC, "description", AliasAltText},
	{NSPNG, "ModificationTime", NSXMP, "ModifyDate", AliasSimple},
	{NSPNG, "Software", NSXMP, "CreatorTool", AliasSimple},
	{NSPNG, "Title", NSDC, "title", AliasAltText},
}

// dcArrayForms lists the Dublin Core properties whose schema type is an array.
var dcArrayForms = map[string]ArrayForm{
	"contributor": ArrayUnordered,
	"language":    ArrayUnordered,
	"publisher":   ArrayUnordered,
	"relation":    ArrayUnordered,
	"subject":     ArrayUnordered,
	"type":        ArrayUnordered,
	"creator":     ArrayOrdered,
	"date":        ArrayOrdered,
	"description": ArrayAlternative,
	"rights":      ArrayAlternative,
	"title":       ArrayAlternative,
}
