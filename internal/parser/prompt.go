package parser

import (
	"fmt"
	"strings"

	"lexmerge/internal/domain"
)

// UserPrompt accompanies the uploaded documents in every extraction request.
const UserPrompt = "Extract the data according to the system instructions from these uploaded documents."

const instructionHead = `You are an expert legal and financial document analyst.
TASK: Extract values ONLY from the uploaded documents and fill them against the fixed fields listed below.

STRICT RULES:
1. Do NOT change the order of fields.
2. Do NOT change the field names.
3. Number every field sequentially as 1, 2, 3, etc.
4. Do NOT assume or infer any value. If any data is not available, leave it blank.
5. Use exact wording as found in documents.
6. Prefer primary documents as specified in user instructions.
7. All dates must be in dd.mm.yyyy format.
8. OFFICER NAME format: Name, S/o. ParentName aged XX years.
9. All amounts format: 1,00,000 (No Rs. or symbols).
10. CO-BORROWERS NO: Use "2 to 4" format.
11. DOC TYPE: "Original Sale Deed", "Settlement Deed", or "Patta".
12. For POLICE STATION: Identify village from property description and determine the jurisdiction.

JSON SCHEMA REQUIREMENT:
You must return a JSON object with:
- "fields": array of objects { id: number, fieldName: string, value: string }
- "immovablePropertyDescription": string (Exact full text from Possession Notice)
- "applicantsAndCoBorrowers": string (Names and addresses from Possession Notice)

Return ONLY the JSON object, without markdown formatting or code fences.

FIELDS:
`

// SystemInstruction returns the extraction instruction listing the fixed field
// catalogue, numbered from 1.
func SystemInstruction() string {
	var b strings.Builder
	b.WriteString(instructionHead)
	for i, name := range domain.FieldNames {
		fmt.Fprintf(&b, "%d. %s\n", i+1, name)
	}
	return b.String()
}

// FullPrompt joins the system instruction and user prompt for providers that take
// a single text block.
func FullPrompt() string {
	return SystemInstruction() + "\n" + UserPrompt
}
