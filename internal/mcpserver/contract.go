package mcpserver

// ReactionFormatContract describes the text encoding of reactions and
// datasets that LLM consumers should follow when submitting records.
const ReactionFormatContract = `# Reaction Record Format

Reactions are submitted and returned in the text encoding: block-style YAML
whose keys are the snake_case field names of the binary (JSON) encoding.
JSON is also accepted wherever text is.

## Structure

` + "```" + `yaml
reaction_id: ord-0123abcd          # assigned on first save when empty
identifiers:
  - type: 2                        # enums are numbers; 2 = REACTION_SMILES
    value: CCO>>CC=O
inputs:
  ethanol:                         # free-form input name
    components:
      - identifiers:
          - type: 2                # SMILES
            value: CCO
        amount:
          mass:
            value: 1.5
            precision: 0.1
            units: 2               # GRAM
        reaction_role: 1           # REACTANT
conditions:
  temperature:
    setpoint:
      value: 25
      units: 1                     # CELSIUS
outcomes:
  - reaction_time:
      value: 2
      units: 2                     # HOUR
    products:
      - identifiers:
          - type: 2
            value: CC=O
        yield:
          value: 80
provenance:
  record_created:
    time:
      value: "2024-01-01T00:00:00Z"
    person:
      username: chemist
` + "```" + `

## Rules

1. **inputs** and **outcomes** are required; every other section is optional.
2. **Quantities** carry ` + "`" + `value` + "`" + `, an optional non-negative ` + "`" + `precision` + "`" + ` and ` + "`" + `units` + "`" + `.
   Units are required whenever a value is set. Percentages have no units.
3. **Amounts** set exactly one of ` + "`" + `mass` + "`" + `, ` + "`" + `moles` + "`" + ` or ` + "`" + `volume` + "`" + `.
4. **Enums** are written as numbers. CUSTOM values require the sibling ` + "`" + `details` + "`" + ` field.
5. **Datasets** hold a ` + "`" + `name` + "`" + `, a ` + "`" + `description` + "`" + ` and a list of ` + "`" + `reactions` + "`" + `.
   Reaction ids must be unique within a dataset.
6. **Dataset names** are paths relative to the storage root ending in
   ` + "`" + `.json` + "`" + `, ` + "`" + `.yaml` + "`" + `, ` + "`" + `.yml` + "`" + ` or ` + "`" + `.pbtxt` + "`" + `.

## Assets

- Upload images and spectra with the ` + "`" + `upload_asset` + "`" + ` tool. Assets belong to one
  dataset and are addressed by the returned token.
- Supported formats: png, jpg, jpeg, gif, webp, svg, pdf.

## Validation

Call ` + "`" + `validate_reaction` + "`" + ` before saving. Errors block a save; warnings are
informational.
`
