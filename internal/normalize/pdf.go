package normalize

import "regexp"

const epochPDFDate = "(D:19700101000000"

var (
	pdfDateRe  = regexp.MustCompile(`\(D:[0-9]{14}`)
	pdfIDRe    = regexp.MustCompile(`/ID \[ <.*> ]`)
	pdfXmpIDRe = regexp.MustCompile(`/id:\[ <.*> ]`)
)

// pdfMetadataElements are XMP elements written at generation time.
var pdfMetadataElements = []string{
	"xmp:CreateDate",
	"xmp:ModifyDate",
	"xmp:MetadataDate",
	"xmpMM:DocumentID",
	"xmpMM:InstanceID",
}

func normalizePDF(text string) string {
	text = pdfDateRe.ReplaceAllLiteralString(text, epochPDFDate)
	text = pdfIDRe.ReplaceAllLiteralString(text, "")
	text = pdfXmpIDRe.ReplaceAllLiteralString(text, "")
	for _, name := range pdfMetadataElements {
		text = RemoveElement(text, name)
	}
	return text
}
