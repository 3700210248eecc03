package parser

// Fixed template documents offered to users as a starting point. They are
// static assets, not pipeline output, but they live next to the parser so the
// round-trip tests can hold both sides of the contract together.

// SampleCSVTemplate has every header mapping to its identically-named target
// field at high confidence and four rows that all pass validation.
const SampleCSVTemplate = `text,type,options,required,minValue,maxValue,points
What is your name?,short_text,,true,,,0
How satisfied are you with our service?,rating,,true,1,5,10
Which features do you use?,multi_choice,Dashboard|Reports|Alerts|API,false,,,5
Any additional feedback?,paragraph,,false,,,0
`

// SampleJSONTemplate parses to exactly three questions.
const SampleJSONTemplate = `{
  "title": "Customer Feedback Survey",
  "description": "Quarterly customer satisfaction check-in",
  "questions": [
    {
      "text": "How would you rate our support?",
      "type": "rating",
      "required": true,
      "minValue": 1,
      "maxValue": 5,
      "points": 10
    },
    {
      "text": "Which contact channel do you prefer?",
      "type": "single_choice",
      "options": ["Email", "Phone", "Chat"],
      "required": false
    },
    {
      "text": "Anything else you would like to share?",
      "type": "paragraph",
      "required": false,
      "placeholder": "Your thoughts..."
    }
  ]
}
`
