package sqlinline

const QUpsertGoogleUser = `--sql bddfe218-b7f8-4f10-bd01-a7e707e5f681
insert into users (id, google_sub, email, name, avatar_url, role, created_at, updated_at)
values (gen_random_uuid()::text, $1::text, $2::text, $3::text, $4::text, 'contributor', now(), now())
on conflict (email) do update set
    name = excluded.name,
    avatar_url = excluded.avatar_url,
    google_sub = excluded.google_sub,
    updated_at = now()
returning id, name, avatar_url, role;
`

const QSelectUserByID = `--sql 6b28b068-47fa-4f32-b694-5b86957d0ec6
select id, coalesce(google_sub, ''), email, name, avatar_url, role, created_at, updated_at
from users
where id = $1::text
limit 1;
`

const QSelectUserBrief = `--sql 9bfadc01-1fe4-439e-99c1-2c28ed3259f8
select id, name, avatar_url
from users
where id = $1::text
limit 1;
`
