package sqlinline

// QSelectContribution looks up the dedup guard row by payment id alone,
// matching the table's unique key. The preem path comes back so callers can
// detect deliveries whose metadata drifted to a different preem.
const QSelectContribution = `--sql 2d779858-1978-463d-a1fa-a912c53c73e9
select preem_path, status, amount_int
from contributions
where id = $1::text
limit 1;
`

// QUpsertContribution merge-writes a contribution into its confirmed state.
// Paired with the unique id, the insert path is what loses the race when two
// deliveries of the same payment run concurrently.
const QUpsertContribution = `--sql 86d1a254-36ff-460a-b618-38c877f02355
insert into contributions (id, preem_path, amount_int, status, contributor, is_anonymous, message, payment, properties, created_at, updated_at)
values ($1::text, $2::text, $3::bigint, 'confirmed', $4::jsonb, $5::boolean, $6::text, $7::jsonb, coalesce($8::jsonb, '{}'::jsonb), now(), now())
on conflict (id) do update set
    status = 'confirmed',
    amount_int = excluded.amount_int,
    contributor = excluded.contributor,
    is_anonymous = excluded.is_anonymous,
    message = excluded.message,
    payment = excluded.payment,
    properties = contributions.properties || excluded.properties,
    updated_at = now();
`

const QListRecentContributions = `--sql 3cd9ec14-e255-422e-9e16-579f7f335815
select c.id, c.preem_path, c.amount_int, c.contributor, c.is_anonymous, c.message, c.created_at, p.name
from contributions c
join preems p on p.path = c.preem_path
where c.status = 'confirmed'
order by c.created_at desc
limit $1::int;
`

const QListContributionsForPreem = `--sql 5a096f95-0f6f-4fa9-bc4a-c1594e0868bc
select id, amount_int, status, contributor, is_anonymous, message, created_at
from contributions
where preem_path = $1::text
order by created_at desc;
`
