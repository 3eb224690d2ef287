package gemini

// pagePrompt wraps a rendered page for the model. Arguments: date, page.
const pagePrompt = `Journal page for %s:

%s`
