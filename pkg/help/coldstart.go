package help

const ColdstartYAML = `# essay-obscurity Quick Start

what_it_does: |
  Compares how often an essay reaches for rare words against essays a model
  writes on the same thesis, then blends that with a style judgment.

commands:
  detect_stdin: |
    essay-obscurity < essay.txt

  detect_file: |
    essay-obscurity detect --input essay.pdf

  detect_url: |
    essay-obscurity detect --url "https://example.com/essay"

  offline: |
    essay-obscurity detect --input essay.txt --reference ref1.txt --reference ref2.txt --style unclear

  score_only: |
    essay-obscurity score --input essay.txt --top 15

  structured_output: |
    essay-obscurity detect --input essay.txt --format yaml

  import_corpus: |
    essay-obscurity corpus import --csv unigram_freq.csv --db essay-obscurity.db --name default

  build_corpus: |
    essay-obscurity corpus build --from a.txt --from b.txt --out my_freq.csv

  corpus_stats: |
    essay-obscurity corpus stats --corpus unigram_freq.csv --top 20
    essay-obscurity corpus stats --db essay-obscurity.db

configuration:
  file: "essay-obscurity.yaml (or --config <path>)"
  env:
    - "OPENAI_API_KEY (required unless --reference and --style are given)"
    - "OPENAI_BASE_URL, OPENAI_MODEL"
    - "ESSAY_CORPUS, ESSAY_SAMPLES, ESSAY_LOG_LEVEL"
  dotenv: ".env in the working directory is read when present"

verdict_rules:
  - "Obscurity confidence = normal CDF of (input - reference mean) / 4, as 0-100"
  - "Final = 0.75 x obscurity confidence + 0.25 x style confidence"
  - "Final < 50 => Likely AI"
  - "Final > 70 => Likely Human"
  - "Otherwise => Unclear"
  - "The 10 least obscure words are trimmed before averaging"

error_behavior:
  - "Corpus missing or malformed: exit code 2"
  - "Empty essay, no usable references, missing API key: exit code 1"
  - "Failed reference samples are skipped as long as one survives"
  - "Style judge failure: style counts as Unclear (50)"
  - "--format yaml|json writes errors to stdout as structured data"
`
